package kgview

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
)

var (
	title  = color.New(color.FgGreen, color.Bold).SprintFunc()
	accent = color.New(color.FgCyan, color.Bold).SprintFunc()
	dim    = color.New(color.FgHiBlack).SprintFunc()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
