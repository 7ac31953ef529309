package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/savegame"
	"github.com/vovakirdan/dreamstory/internal/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep the saved game ticking in real time",
	Long: `Run the saved game with no UI until interrupted. Progress is logged
every in-game hour and saved on the autosave interval and on exit.

Examples:
  dreamstory run
  dreamstory run --tick 100ms --autosave 10s
  dreamstory run --pace hectic --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	addGameFlags(runCmd)
	runCmd.Flags().BoolVar(&flagNew, "new", false, "Ignore the saved game and start fresh")
}

func runRun(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	logger := newLogger(cfg, os.Stderr)

	store, gw := openSlot(cfg)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, loaded := loadGame(ctx, gw, logger, flagNew)
	if !loaded || speedChosen(cmd, cfg) {
		if err := ctrl.SetSpeed(cfg.Game.EffectiveSpeed()); err != nil {
			store.Close()
			fatal("%v", err)
		}
	}
	ctrl.SetPaused(false)

	autosaver := savegame.NewAutosaver(gw, logger)
	runner := sim.NewRunner(ctrl)
	runner.AfterTick = progressReporter(logger.Info, cfg.Game.AutosaveInterval, autosaver.Offer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = autosaver.Run(ctx)
	}()

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, cfg.Game.TickInterval)
	}()

	if s, err := runner.Snapshot(ctx); err == nil {
		fmt.Printf("Running day %d from %s at %gx. Press Ctrl+C to stop.\n",
			s.Day, sim.FormatClock(s.ClockMinutes), s.Speed)
	}

	err := <-done
	wg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		store.Close()
		fatal("%v", err)
	}

	// The loop has stopped, so the controller is ours again.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Save(saveCtx); err != nil {
		store.Close()
		fatal("%v", err)
	}

	s := ctrl.State()
	fmt.Printf("Stopped at day %d %s. Saved.\n", s.Day, sim.FormatClock(s.ClockMinutes))
}

// progressReporter returns an AfterTick hook that logs once per in-game hour
// and offers a snapshot to save every autosave interval.
func progressReporter(report func(msg any, keyvals ...any), every time.Duration, offer func(sim.State)) func(*sim.Controller) {
	lastHour := -1
	lastSave := time.Now()
	return func(c *sim.Controller) {
		s := c.State()
		if hour := s.ClockMinutes / 60; hour != lastHour {
			lastHour = hour
			activity := "idle"
			if s.Active != nil {
				activity = s.Active.ActivityID
			}
			report("tick",
				"day", s.Day,
				"clock", sim.FormatClock(s.ClockMinutes),
				"health", fmt.Sprintf("%.0f", s.Needs.Health),
				"activity", activity,
			)
		}
		if every > 0 && time.Since(lastSave) >= every {
			lastSave = time.Now()
			offer(s)
		}
	}
}
