package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a pack and starting level interactively",
	Long: `Start tumble in interactive menu mode.

Use Up/Down to pick a pack, Left/Right to pick the starting level and
Enter to play. Tab opens the best-times board. Going back from a paused
or finished game returns to the menu.

Examples:
  tumble menu
  tumble menu --fps 30
  tumble menu --db ./times.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	rt := runtimeConfig()
	for {
		res, err := tui.RunMenu(rt)
		if err != nil {
			return err
		}
		rt = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsTimes:
			var source tui.TimesSource
			if store != nil {
				source = store
			}
			back, err := tui.RunTimes(source, rt.ScreenW, rt.ScreenH)
			if err != nil || !back {
				return err
			}

		default:
			pack, err := level.Open(res.PackID)
			if err != nil {
				return err
			}
			back, err := playPack(pack, res.Level, cfg, rt, store, logger, tui.ModelOptions{Logger: logger})
			if err != nil || !back {
				return err
			}
		}
	}
}
