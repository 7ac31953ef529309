package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dreamstory/internal/config"
	"github.com/vovakirdan/dreamstory/internal/platform/tui"
	"github.com/vovakirdan/dreamstory/internal/savegame"
	"github.com/vovakirdan/dreamstory/internal/sim"
)

var (
	flagSpeed    float64
	flagPace     string
	flagTick     time.Duration
	flagAutosave time.Duration
	flagLogFile  string
	flagNew      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the interactive game. The saved game is picked up if there is one;
otherwise a new game begins with a short introduction.

Controls:
  Up/Down, j/k  - Choose an activity
  Enter         - Do the activity (moves you to its room)
  1-5           - Go to another room
  Space/P       - Pause
  +/-           - Change speed
  S / L         - Save / Load
  R             - New game (deletes the save)
  ?             - All keys
  Q/Ctrl+C      - Quit

Pace options:
  relaxed  - 0.5x
  normal   - 1x
  brisk    - 2x
  hectic   - 4x

Examples:
  dreamstory play
  dreamstory play --pace brisk
  dreamstory play --new --autosave 1m
  dreamstory play --log-file /tmp/dreamstory.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (overrides config)")
	playCmd.Flags().BoolVar(&flagNew, "new", false, "Ignore the saved game and start fresh")
}

// addGameFlags registers the flags shared by every command that drives a game.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&flagSpeed, "speed", 0, "Speed multiplier (overrides config)")
	cmd.Flags().StringVar(&flagPace, "pace", "", "Speed preset: relaxed, normal, brisk, hectic")
	cmd.Flags().DurationVar(&flagTick, "tick", 0, "Real time between ticks (overrides config)")
	cmd.Flags().DurationVar(&flagAutosave, "autosave", 0, "Autosave interval, 0 keeps the config value")
}

// applyGameFlags copies the shared game flags over cfg, then revalidates.
func applyGameFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Game.Speed = flagSpeed
		cfg.Game.Pace = ""
	}
	if flags.Changed("pace") {
		cfg.Game.Pace = config.Pace(flagPace)
	}
	if flags.Changed("tick") {
		cfg.Game.TickInterval = flagTick
	}
	if flags.Changed("autosave") {
		cfg.Game.AutosaveInterval = flagAutosave
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
}

// speedChosen reports whether the player asked for a speed this run,
// which then overrides the speed stored in the save.
func speedChosen(cmd *cobra.Command, cfg config.Config) bool {
	return cmd.Flags().Changed("speed") || cmd.Flags().Changed("pace") || cfg.Game.Pace != ""
}

// loadGame builds a controller over gw and restores the saved game into it.
// It reports whether a save was restored; a damaged save is reported and skipped.
func loadGame(ctx context.Context, gw *savegame.Gateway, logger *log.Logger, fresh bool) (*sim.Controller, bool) {
	ctrl := sim.NewController(nil, gw, logger)
	if fresh {
		return ctrl, false
	}

	err := ctrl.Load(ctx)
	switch {
	case err == nil:
		return ctrl, true
	case errors.Is(err, savegame.ErrNoSave):
		return ctrl, false
	case errors.Is(err, sim.ErrCorruptSave):
		fmt.Fprintf(os.Stderr, "Warning: the saved game is damaged (%v); starting a new one.\n", err)
		return ctrl, false
	default:
		fatal("%v", err)
		return nil, false
	}
}

func runPlay(cmd *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal("play needs a terminal; try 'dreamstory run' or 'dreamstory simulate'")
	}

	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = flagLogFile
	}

	// The screen owns stdout and stderr, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fatal("opening log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	store, gw := openSlot(cfg)
	defer store.Close()

	ctrl, loaded := loadGame(context.Background(), gw, logger, flagNew)
	if !loaded || speedChosen(cmd, cfg) {
		if err := ctrl.SetSpeed(cfg.Game.EffectiveSpeed()); err != nil {
			fatal("%v", err)
		}
	}

	err := tui.Run(ctrl, tui.Options{
		Gateway:      gw,
		TickInterval: cfg.Game.TickInterval,
		Autosave:     cfg.Game.AutosaveInterval,
		Welcome:      !loaded,
		Logger:       logger,
	})
	if err != nil {
		fatal("%v", err)
	}
}
