package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tumble/internal/audio"
	"github.com/vovakirdan/tumble/internal/config"
	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/game"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/platform/tui"
	"github.com/vovakirdan/tumble/internal/storage"
)

var (
	flagLevel int
	flagPack  string
	flagSound bool
	flagWatch bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a level pack",
	Long: `Play a level pack from the given level onward.

Controls:
  A/Left       - Rotate gravity counter-clockwise
  D/Right      - Rotate gravity clockwise
  Enter/Space  - Next level (once finished)
  P/Esc        - Pause
  R            - Restart the run from level 1
  B            - Back to menu (paused or finished)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

--pack accepts a registered pack id or a directory of level YAML files.
With --watch, edits to a directory pack are picked up on the next level.

Examples:
  tumble play
  tumble play --level 3
  tumble play --pack ./my-levels --watch
  tumble play --sound --pace brisk`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Level to start from")
	playCmd.Flags().StringVar(&flagPack, "pack", level.ClassicID, "Pack id or directory")
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play music and sounds on the audio device")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload a directory pack when its files change")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	pack, err := openPack(flagPack)
	if err != nil {
		return err
	}
	if flagLevel < 1 || flagLevel > pack.Len() {
		return fmt.Errorf("level %d out of range: pack %q has %d levels", flagLevel, pack.ID(), pack.Len())
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.ModelOptions{Logger: logger}
	if flagWatch {
		info, statErr := os.Stat(flagPack)
		if statErr != nil || !info.IsDir() {
			return fmt.Errorf("--watch needs a directory pack, got %q", flagPack)
		}
		w, watchErr := level.NewWatcher(flagPack)
		if watchErr != nil {
			return fmt.Errorf("cannot watch %s: %w", flagPack, watchErr)
		}
		defer w.Close()
		opts.Watcher = w
		opts.PackDir = flagPack
	}

	_, err = playPack(pack, flagLevel, cfg, runtimeConfig(), store, logger, opts)
	return err
}

// playPack runs one session of pack in the terminal and reports whether
// the player asked to go back to the menu.
func playPack(pack *level.Pack, start int, cfg config.Config, rt core.RuntimeConfig, store *storage.Store, logger *log.Logger, opts tui.ModelOptions) (bool, error) {
	sessOpts := game.Options{
		Config:     cfg,
		Runtime:    rt,
		Pack:       pack,
		StartLevel: start,
		Logger:     logger,
	}
	if store != nil {
		sessOpts.Recorder = store
	}
	if flagSound {
		sessOpts.Output = audio.NewSpeaker()
	}

	sess, err := game.NewSession(sessOpts)
	if err != nil {
		return false, err
	}
	defer sess.Close()

	return tui.Run(sess, rt, opts)
}
