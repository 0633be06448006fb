// tumble is a gravity-rotation puzzle game for the terminal.
//
// Usage:
//
//	tumble play              - Play a level pack
//	tumble menu              - Pick a pack and starting level interactively
//	tumble levels            - List packs and their levels
//	tumble times             - Show best level times and fastest runs
//	tumble simulate          - Run the autopilot headlessly
//	tumble serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set autopilot seed
//	--db <path>          - Set database path (default: ~/.tumble/times.db)
//	--config <path>      - Use a custom configuration file
//	--pace <preset>      - relaxed, normal or brisk
//	--log-file <path>    - Where logs go in terminal modes
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tumble/internal/config"
	"github.com/vovakirdan/tumble/internal/core"
	"github.com/vovakirdan/tumble/internal/game"
	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPace     string
	flagLogFile  string
	flagLogLevel string
)

// The store records times for sessions.
var _ game.Recorder = (*storage.Store)(nil)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tumble",
	Short: "Tumble - rotate gravity to guide a cube onto its targets",
	Long: `Tumble is a terminal puzzle game. A cube sits in a walled arena;
turn gravity a quarter at a time until it has struck every target.

Available commands:
  play      - Play a level pack
  menu      - Interactive pack and level picker
  levels    - List packs and their levels
  times     - View best times
  simulate  - Headless autopilot run
  serve     - Start SSH server for remote play

Examples:
  tumble play
  tumble play --level 3
  tumble play --pack ./my-levels --watch
  tumble times --pack classic
  tumble simulate --seed 42
  tumble serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Autopilot seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tumble/times.db", "Path to times database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Pace preset: relaxed, normal, brisk")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.tumble/tumble.log", "Log file for terminal modes")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newLogger builds the logger for a command writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tumble",
		Level:           level,
	}), nil
}

// fileLogger opens the log file for modes that own the terminal.
// The returned closer must be called when done.
func fileLogger() (*log.Logger, func(), error) {
	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// loadConfig reads the configuration and applies --pace. Sessions validate
// the result.
func loadConfig(logger *log.Logger) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPace != "" {
		pace, ok := config.ParsePace(flagPace)
		if !ok {
			return cfg, fmt.Errorf("unknown pace %q (want relaxed, normal or brisk)", flagPace)
		}
		config.ApplyPace(&cfg, pace)
		logger.Debug("pace applied", "pace", pace)
	}
	return cfg, nil
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openPack resolves a pack flag: a directory on disk, or a registered id.
func openPack(ref string) (*level.Pack, error) {
	if ref == "" {
		ref = level.ClassicID
	}
	if info, err := os.Stat(ref); err == nil && info.IsDir() {
		return level.LoadDir(ref)
	}
	return level.Open(ref)
}

// openStore opens the times database, warning instead of failing.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open times database", "err", err)
		return nil
	}
	return store
}
