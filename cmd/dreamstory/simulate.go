package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

var (
	flagTicks    int
	flagActivity string
	flagDryRun   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fast-forward the saved game",
	Long: `Load the saved game (or start a new one), optionally begin an activity,
advance a number of ticks at once, and save the result.

One tick is 15 in-game minutes at 1x, so 96 ticks is a full day.

Examples:
  dreamstory simulate --ticks 4
  dreamstory simulate --ticks 8 --activity eat
  dreamstory simulate --ticks 96 --new --dry-run`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 1, "Number of ticks to advance")
	simulateCmd.Flags().StringVar(&flagActivity, "activity", "", "Start this activity first")
	simulateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Do not save the result")
	simulateCmd.Flags().BoolVar(&flagNew, "new", false, "Ignore the saved game and start fresh")
	simulateCmd.Flags().Float64Var(&flagSpeed, "speed", 0, "Speed multiplier (overrides the save)")
}

func runSimulate(cmd *cobra.Command, _ []string) {
	if flagTicks < 0 {
		fatal("--ticks cannot be negative")
	}

	cfg := loadConfig()
	logger := newLogger(cfg, os.Stderr)
	store, gw := openSlot(cfg)
	defer store.Close()
	ctx := context.Background()

	ctrl, _ := loadGame(ctx, gw, logger, flagNew)
	if cmd.Flags().Changed("speed") {
		if err := ctrl.SetSpeed(flagSpeed); err != nil {
			store.Close()
			fatal("%v", err)
		}
	}
	before := ctrl.State()

	// A paused game is advanced anyway and saved paused again.
	ctrl.SetPaused(false)

	if flagActivity != "" {
		if err := ctrl.StartActivity(flagActivity); err != nil {
			store.Close()
			fatal("cannot start %s: %v", flagActivity, err)
		}
	}
	ctrl.Step(flagTicks)
	ctrl.SetPaused(before.Paused)

	after := ctrl.State()
	fmt.Printf("Before: day %d %s\n", before.Day, sim.FormatClock(before.ClockMinutes))
	fmt.Printf("After %d ticks:\n\n", flagTicks)
	printState(after, ctrl.Catalog())

	if flagDryRun {
		return
	}
	if err := ctrl.Save(ctx); err != nil {
		store.Close()
		fatal("%v", err)
	}
	fmt.Println()
	fmt.Println("Saved.")
}
