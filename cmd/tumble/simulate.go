package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tumble/internal/game"
	"github.com/vovakirdan/tumble/internal/timing"
)

var (
	flagSimTicks  int
	flagSimPack   string
	flagSimLevel  int
	flagSimRecord bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the autopilot headlessly",
	Long: `Play a pack with the autopilot and no terminal UI, printing each
level time as it is set. The same --seed always gives the same run.

Examples:
  tumble simulate
  tumble simulate --seed 42 --ticks 72000
  tumble simulate --pack ./my-levels --record`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 36000, "Maximum frames to simulate")
	simulateCmd.Flags().StringVar(&flagSimPack, "pack", "classic", "Pack id or directory")
	simulateCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level to start from")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save times to the database")
}

// printRecorder prints times as they are set and forwards them to next.
type printRecorder struct {
	out  io.Writer
	next game.Recorder
}

func (r printRecorder) SaveLevelTime(ctx context.Context, pack string, lvl int, elapsed time.Duration, runID string) error {
	fmt.Fprintf(r.out, "level %-3d %s\n", lvl, timing.FormatClock(elapsed))
	if r.next == nil {
		return nil
	}
	return r.next.SaveLevelTime(ctx, pack, lvl, elapsed, runID)
}

func (r printRecorder) SaveRun(ctx context.Context, runID, pack string, total time.Duration, levels int) error {
	fmt.Fprintf(r.out, "run       %s (%d levels)\n", timing.FormatClock(total), levels)
	if r.next == nil {
		return nil
	}
	return r.next.SaveRun(ctx, runID, pack, total, levels)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	pack, err := openPack(flagSimPack)
	if err != nil {
		return err
	}

	rec := printRecorder{out: cmd.OutOrStdout()}
	if flagSimRecord {
		if store := openStore(logger); store != nil {
			defer store.Close()
			rec.next = store
		}
	}

	rt := runtimeConfig()
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	sess, err := game.NewSession(game.Options{
		Config:     cfg,
		Runtime:    rt,
		Pack:       pack,
		StartLevel: flagSimLevel,
		Recorder:   rec,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	logger.Info("simulating", "pack", pack.ID(), "seed", rt.Seed, "ticks", flagSimTicks)
	pilot := game.NewAutopilot(rt.Seed, rt.TickRate)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ticks := 0
	for ; ticks < flagSimTicks; ticks++ {
		if sess.Loading() {
			if err := sess.AwaitPending(ctx); err != nil {
				return err
			}
		}
		if sess.Step(pilot.Next(sess)).Quit {
			break
		}
	}

	st := sess.State()
	simulated := time.Duration(float64(ticks) * rt.FrameDelta() * float64(time.Second))
	fmt.Fprintf(cmd.OutOrStdout(), "simulated %d frames (%s), reached level %d/%d\n",
		ticks, timing.FormatClock(simulated), st.Level, st.Levels)
	return nil
}
