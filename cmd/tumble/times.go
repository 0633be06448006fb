package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tumble/internal/timing"
)

var (
	flagTimesPack string
	flagTimesRuns int
)

var timesCmd = &cobra.Command{
	Use:   "times",
	Short: "Show best level times and fastest runs",
	Long: `Display the best time of every level of a pack and its fastest
complete runs.

Examples:
  tumble times
  tumble times --pack classic --runs 5`,
	RunE: runTimes,
}

func init() {
	timesCmd.Flags().StringVar(&flagTimesPack, "pack", "classic", "Pack id")
	timesCmd.Flags().IntVar(&flagTimesRuns, "runs", 10, "Number of runs to show")
}

func runTimes(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	pack, err := openPack(flagTimesPack)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store == nil {
		return fmt.Errorf("no times database at %s", flagDBPath)
	}
	defer store.Close()

	ctx := cmd.Context()
	best, err := store.BestLevelTimes(ctx, pack.ID())
	if err != nil {
		return err
	}
	runs, err := store.TopRuns(ctx, pack.ID(), flagTimesRuns)
	if err != nil {
		return err
	}

	fmt.Printf("Best Times - %s\n\n", pack.Title())
	if len(best) == 0 {
		fmt.Println("No times recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tumble play --pack %s' to set the first one!\n", pack.ID())
		return nil
	}

	fmt.Printf("  %-5s  %-20s  %-8s  %s\n", "Level", "Name", "Best", "Date")
	fmt.Printf("  %-5s  %-20s  %-8s  %s\n", "-----", "----", "----", "----")
	for _, lt := range best {
		name := ""
		if lvl, err := pack.Level(lt.Level); err == nil {
			name = lvl.Name
		}
		fmt.Printf("  %-5d  %-20s  %-8s  %s\n", lt.Level, name, timing.FormatClock(lt.Elapsed), lt.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No complete runs yet.")
		return nil
	}
	fmt.Println("Fastest Runs")
	fmt.Println()
	fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "Rank", "Time", "Levels", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "----", "----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8s  %-6d  %s\n", i+1, timing.FormatClock(r.Total), r.Levels, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
