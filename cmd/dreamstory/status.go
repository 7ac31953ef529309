package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/savegame"
	"github.com/vovakirdan/dreamstory/internal/sim"
)

var flagJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved game",
	Long: `Display the game in the save slot: day and time, room, needs and the
activity in progress.

Examples:
  dreamstory status
  dreamstory status --json`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw save blob")
}

func runStatus(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store, gw := openSlot(cfg)
	defer store.Close()
	ctx := context.Background()

	if flagJSON {
		blob, err := store.Get(ctx, savegame.SlotKey)
		if err != nil {
			store.Close()
			fatal("reading save: %v", err)
		}
		os.Stdout.Write(blob)
		fmt.Println()
		return
	}

	save, err := gw.Read(ctx)
	if errors.Is(err, savegame.ErrNoSave) {
		fmt.Println("No saved game yet.")
		fmt.Println()
		fmt.Println("Run 'dreamstory play' to start one.")
		return
	}
	if err != nil {
		store.Close()
		fatal("reading save: %v", err)
	}

	printState(save.State, sim.DefaultCatalog())
	fmt.Println()
	fmt.Printf("Saved %s\n", save.SavedAt.Format("2006-01-02 15:04:05"))

	slots, err := store.Slots(ctx)
	if err == nil {
		for _, s := range slots {
			fmt.Printf("  slot %-18s %6d bytes  %s\n", s.Key, s.Size, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}
}

// printState writes a plain-text summary of s.
func printState(s sim.State, cat *sim.Catalog) {
	paused := ""
	if s.Paused {
		paused = "  (paused)"
	}
	fmt.Printf("Day %d, %s %s, %s, %gx%s\n",
		s.Day, sim.FormatClock(s.ClockMinutes), sim.PeriodOf(s.ClockMinutes), s.Room.Title(), s.Speed, paused)
	fmt.Println()

	n := s.Needs
	rows := []struct {
		name  string
		value float64
	}{
		{"Health", n.Health},
		{"Energy", n.Energy},
		{"Hunger", n.Hunger},
		{"Hygiene", n.Hygiene},
		{"Happiness", n.Happiness},
		{"Sleepiness", n.Sleepiness},
	}
	for _, r := range rows {
		fmt.Printf("  %-10s  %5.1f\n", r.name, r.value)
	}

	fmt.Println()
	if s.Active == nil {
		fmt.Println("Idle")
		return
	}
	name := s.Active.ActivityID
	if a, ok := cat.Get(name); ok {
		name = a.Name
	}
	fmt.Printf("Doing: %s, %.0f min left\n", name, s.Active.MinutesRemaining)
}
