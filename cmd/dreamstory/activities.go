package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/sim"
)

var flagRoom string

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List every activity",
	Long: `Shows the activity catalog: where each activity happens, how long it
takes in game time, what it does to your needs and when it is allowed.

Examples:
  dreamstory activities
  dreamstory activities --room kitchen`,
	Args: cobra.NoArgs,
	Run:  runActivities,
}

func init() {
	activitiesCmd.Flags().StringVar(&flagRoom, "room", "", "Only show activities in this room")
}

func runActivities(_ *cobra.Command, _ []string) {
	cat := sim.DefaultCatalog()
	list := cat.All()

	if flagRoom != "" {
		room, ok := sim.ParseRoom(flagRoom)
		if !ok {
			fatal("unknown room %q (rooms: %v)", flagRoom, sim.Rooms)
		}
		list = cat.InRoom(room)
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, a := range list {
		if len(a.ID) > maxIDLen {
			maxIDLen = len(a.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-12s  %5s  %s\n", maxIDLen, "ID", "Room", "Mins", "Effect")
	fmt.Printf("  %-*s  %-12s  %5s  %s\n", maxIDLen, "--", "----", "----", "------")

	for _, a := range list {
		fmt.Printf("  %-*s  %-12s  %5d  %s\n", maxIDLen, a.ID, a.Room.Title(), a.Duration, a.Effect)
		if a.Requires != "" {
			fmt.Printf("  %-*s  %-12s  %5s  only when %s\n", maxIDLen, "", "", "", a.Requires)
		}
	}

	fmt.Println()
	if len(list) < cat.Len() {
		fmt.Printf("Showing %d of %d activities.\n", len(list), cat.Len())
	}
	fmt.Println("Run 'dreamstory play' to start playing.")
}
