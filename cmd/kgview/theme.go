package kgview

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/preferences"
	"github.com/soundprediction/kgview/pkg/types"
)

var themeCmd = &cobra.Command{
	Use:   "theme [get|set <light|dark>|toggle]",
	Short: "Read or change the persisted theme",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	store, err := preferences.Open(cfg.Preferences, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	action := "get"
	if len(args) > 0 {
		action = args[0]
	}

	var theme types.Theme
	switch action {
	case "get":
		theme = store.Theme()
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: kgview theme set <light|dark>")
		}
		if theme, err = types.ParseTheme(args[1]); err != nil {
			return err
		}
		if err := store.Set(theme); err != nil {
			return err
		}
	case "toggle":
		if theme, err = store.Toggle(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown theme action %q: expected get, set or toggle", action)
	}

	fmt.Fprintln(cmd.OutOrStdout(), theme)
	return nil
}
