package main

import (
	"os"

	"github.com/soundprediction/kgview/cmd/kgview"
)

func main() {
	if err := kgview.Execute(); err != nil {
		os.Exit(1)
	}
}
