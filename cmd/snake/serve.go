package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/transport/api"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagAdmin       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and/or HTTP servers",
	Long: `Serve matches over SSH and the ledger over HTTP.

Each SSH connection gets its own menu and matches; the SSH user name is the
ledger identity. All connections and the HTTP API share one ledger.

HTTP endpoints (with --http):
  POST   /v1/scores   submit {identity, score, survival_ms, category}
  GET    /v1/scores   ranked list (?limit=N&category=C)
  DELETE /v1/scores   wipe the ledger (only with --admin)
  GET    /v1/play     websocket match (?mode=solo|duel&difficulty=..&identity=..)

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake/host_key

Examples:
  snake serve                          # SSH on :23234
  snake serve --ssh "" --http :8080    # HTTP only
  snake serve --http :8080 --admin

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagAdmin, "admin", false, "Expose DELETE /v1/scores")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --http")
	}

	h, err := openLedger()
	if err != nil {
		return err
	}
	defer h.close()
	submitter := h.submitter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 0

	if flagSSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagSSHAddr
		sshCfg.HostKeyPath = flagHostKey
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		sshCfg.Difficulty = flagDifficulty

		srv, err := tui.NewSSHServer(sshCfg, h.ledger, submitter, logger.WithPrefix("snake-ssh"))
		if err != nil {
			return err
		}
		running++
		go func() { errCh <- srv.ListenAndServe(ctx) }()
	}

	if flagHTTPAddr != "" {
		srv := api.NewServer(h.ledger, submitter, snake.Config(), logger.WithPrefix("snake-http"), flagAdmin)
		running++
		go func() { errCh <- srv.Serve(ctx, flagHTTPAddr) }()
	}

	logger.Info("serving", "ssh", flagSSHAddr, "http", flagHTTPAddr, "ledger", flagLedger)

	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}
