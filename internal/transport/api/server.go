// Package api exposes the ledger and live matches over HTTP: score
// submission and queries as JSON, and a websocket that plays a match.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/session"
)

const (
	maxBodyBytes = 4 << 10
	maxLimit     = 100
)

// Server serves the HTTP boundary.
type Server struct {
	ledger    *ledger.Ledger
	submitter *session.Submitter
	cfg       config.SnakeConfig
	logger    *log.Logger
	admin     bool
	seed      func() int64

	upgrader websocket.Upgrader
}

// NewServer creates the HTTP boundary. With admin set, DELETE /v1/scores
// is routed; otherwise it does not exist.
func NewServer(l *ledger.Ledger, sub *session.Submitter, cfg config.SnakeConfig, logger *log.Logger, admin bool) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		ledger:    l,
		submitter: sub,
		cfg:       cfg,
		logger:    logger,
		admin:     admin,
		seed:      func() int64 { return time.Now().UnixNano() },
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok\n"))
	})
	mux.HandleFunc("POST /v1/scores", s.handleSubmit)
	mux.HandleFunc("GET /v1/scores", s.handleQuery)
	if s.admin {
		mux.HandleFunc("DELETE /v1/scores", s.handleClear)
	}
	mux.HandleFunc("GET /v1/play", s.handlePlay)
	return mux
}

// scoreJSON is one ranked entry in a query response.
type scoreJSON struct {
	Rank       int       `json:"rank"`
	Identity   string    `json:"identity"`
	Score      int       `json:"score"`
	SurvivalMs int64     `json:"survival_ms"`
	Category   string    `json:"category"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *Server) handleSubmit(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxBodyBytes))
	if err != nil {
		writeError(rw, http.StatusBadRequest, "body too large")
		return
	}
	req, err := decodeSubmit(body)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.cfg.Preset(req.Category); err != nil {
		writeError(rw, http.StatusBadRequest, fmt.Sprintf("unknown category %q", req.Category))
		return
	}

	outcome, err := s.ledger.Submit(r.Context(), ledger.Entry{
		Identity: req.Identity,
		Score:    req.Score,
		Survival: time.Duration(req.SurvivalMs) * time.Millisecond,
		Category: req.Category,
	})
	switch {
	case errors.Is(err, ledger.ErrInvalidEntry):
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ledger.ErrStorage):
		s.logger.Warn("score not saved", "identity", req.Identity, "error", err)
		writeError(rw, http.StatusServiceUnavailable, "score not saved")
		return
	case err != nil:
		s.logger.Error("submission failed", "error", err)
		writeError(rw, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(rw, http.StatusCreated, map[string]string{"outcome": outcome.String()})
}

func (s *Server) handleQuery(rw http.ResponseWriter, r *http.Request) {
	limit := ledger.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(rw, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	entries, err := s.ledger.Top(r.Context(), limit, ledger.Filter{
		Category: r.URL.Query().Get("category"),
		Ranks:    s.cfg.CategoryRanks(),
	})
	if err != nil {
		// Leaderboard failures never block clients
		s.logger.Warn("leaderboard unavailable", "error", err)
		entries = nil
	}

	out := make([]scoreJSON, 0, len(entries))
	for i, e := range entries {
		out = append(out, scoreJSON{
			Rank:       i + 1,
			Identity:   e.Identity,
			Score:      e.Score,
			SurvivalMs: e.Survival.Milliseconds(),
			Category:   e.Category,
			RecordedAt: e.RecordedAt,
		})
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) handleClear(rw http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Clear(r.Context()); err != nil {
		s.logger.Error("clear failed", "error", err)
		writeError(rw, http.StatusServiceUnavailable, "clear failed")
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

// Serve runs the server on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]string{"error": msg})
}
