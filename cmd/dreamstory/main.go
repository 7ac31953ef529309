// dreamstory is a terminal life simulation: keep one character fed, rested,
// clean and happy as the in-game clock runs.
//
// Usage:
//
//	dreamstory play          - Play in the terminal
//	dreamstory activities    - List every activity
//	dreamstory status        - Show the saved game
//	dreamstory simulate      - Advance the saved game without a UI
//	dreamstory run           - Run the saved game in real time without a UI
//	dreamstory reset         - Delete the saved game
//	dreamstory serve         - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.dreamstory, ./configs)
//	--db <path>         - Save database (default: ~/.dreamstory/dreamstory.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/config"
	"github.com/vovakirdan/dreamstory/internal/savegame"
	"github.com/vovakirdan/dreamstory/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dreamstory",
	Short: "Dream Story - a small life in your terminal",
	Long: `Dream Story is a life simulation. One character lives in a five-room
flat; time passes, needs drift, and you pick what they do next.

Available commands:
  play        - Interactive game
  activities  - Show every activity and what it does
  status      - Show the saved game
  simulate    - Fast-forward the saved game
  run         - Keep the saved game ticking in real time
  reset       - Delete the saved game
  serve       - Start SSH server for remote play

Examples:
  dreamstory play
  dreamstory simulate --ticks 96 --activity computer
  dreamstory status
  dreamstory serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to save database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}

// fatal prints an error line and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the config file and environment, then applies global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

// newLogger builds the logger for a command writing to w.
func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "dreamstory",
		Level:           cfg.LogLevel(),
	})
}

// openSlot opens the save database and the gateway over it.
// The caller closes the store.
func openSlot(cfg config.Config) (*storage.Store, *savegame.Gateway) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatal("opening save database: %v", err)
	}
	return store, savegame.NewGateway(store, nil)
}
