package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved game",
	Long: `Removes the save slot. The next 'dreamstory play' starts a new game.

Examples:
  dreamstory reset
  dreamstory reset --db ./test.db`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func runReset(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store, gw := openSlot(cfg)
	defer store.Close()
	ctx := context.Background()

	exists, err := gw.Exists(ctx)
	if err != nil {
		store.Close()
		fatal("%v", err)
	}
	if !exists {
		fmt.Println("No saved game to delete.")
		return
	}

	// A damaged save has no readable time but is still deleted.
	when, whenErr := gw.LastSaved(ctx)
	if err := gw.Clear(ctx); err != nil {
		store.Close()
		fatal("%v", err)
	}
	if whenErr != nil {
		fmt.Println("Saved game deleted.")
		return
	}
	fmt.Printf("Deleted the game saved %s.\n", when.Format("2006-01-02 15:04"))
}
