package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tumble/internal/level"
	"github.com/vovakirdan/tumble/internal/registry"
)

var flagLevelsPack string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List level packs and their levels",
	Long: `Shows every registered pack, or one pack given by --pack, with the
size and target count of each level.

Examples:
  tumble levels
  tumble levels --pack ./my-levels`,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelsPack, "pack", "", "Pack id or directory (default: all registered packs)")
}

func runLevels(_ *cobra.Command, _ []string) error {
	if flagLevelsPack != "" {
		pack, err := openPack(flagLevelsPack)
		if err != nil {
			return err
		}
		return printPack(pack)
	}

	infos := registry.List()
	if len(infos) == 0 {
		fmt.Println("No level packs available.")
		return nil
	}
	for _, info := range infos {
		pack, err := level.Open(info.ID)
		if err != nil {
			return err
		}
		if err := printPack(pack); err != nil {
			return err
		}
	}
	fmt.Println("Run 'tumble play --pack <id> --level <n>' to play.")
	return nil
}

func printPack(pack *level.Pack) error {
	fmt.Printf("%s (%s) - %d levels\n\n", pack.Title(), pack.ID(), pack.Len())
	fmt.Printf("  %-3s  %-20s  %-7s  %s\n", "#", "Name", "Size", "Targets")
	fmt.Printf("  %-3s  %-20s  %-7s  %s\n", "-", "----", "----", "-------")

	for i := 1; i <= pack.Len(); i++ {
		lvl, err := pack.Level(i)
		if err != nil {
			return err
		}
		size := fmt.Sprintf("%dx%d", lvl.Width, lvl.Height)
		fmt.Printf("  %-3d  %-20s  %-7s  %d\n", i, lvl.Name, size, lvl.HittableTargets())
	}
	fmt.Println()
	return nil
}
