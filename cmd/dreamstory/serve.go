package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dreamstory/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Dream Story SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own fresh game. Saves made over SSH are kept
in memory for that session only.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.dreamstory/host_key

Examples:
  dreamstory serve                           # Listen on :23235 with auto-generated key
  dreamstory serve --ssh :2222               # Listen on port 2222
  dreamstory serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle time before disconnecting (overrides config)")
	serveCmd.Flags().Float64Var(&flagSpeed, "speed", 0, "Speed multiplier for every session (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	if cmd.Flags().Changed("ssh") {
		cfg.SSH.Addr = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.SSH.HostKey = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.SSH.IdleTimeout = flagIdleTimeout
	}
	if cmd.Flags().Changed("speed") {
		cfg.Game.Speed = flagSpeed
		cfg.Game.Pace = ""
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      cfg.SSH.Addr,
		HostKeyPath:  cfg.SSH.HostKey,
		IdleTimeout:  cfg.SSH.IdleTimeout,
		TickInterval: cfg.Game.TickInterval,
		Speed:        cfg.Game.EffectiveSpeed(),
		Logger:       newLogger(cfg, os.Stderr).WithPrefix("dreamstory-ssh"),
	})
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting Dream Story SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		fatal("server: %v", err)
	}
}
