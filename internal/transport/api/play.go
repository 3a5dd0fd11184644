package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/ledger"
	"github.com/vovakirdan/tui-snake/internal/session"
)

var playSessions atomic.Uint64

// steerMsg is a client heading request.
type steerMsg struct {
	Player  int    `json:"player"` // Defaults to 1
	Heading string `json:"heading"`
}

// serverMsg is every message the play socket sends.
type serverMsg struct {
	Type        string           `json:"type"`
	Frame       *snake.Snapshot  `json:"frame,omitempty"`
	Result      *snake.Result    `json:"result,omitempty"`
	Submissions []submissionJSON `json:"submissions,omitempty"`
}

type submissionJSON struct {
	Player   int    `json:"player"`
	Identity string `json:"identity"`
	Status   string `json:"status"`
	Outcome  string `json:"outcome,omitempty"`
}

// handlePlay upgrades to a websocket and runs one match for the client.
// Query: mode=solo|duel, difficulty, identity, identity2, seed.
func (s *Server) handlePlay(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	players := 1
	switch q.Get("mode") {
	case "", "solo":
	case "duel":
		players = 2
	default:
		writeError(rw, http.StatusBadRequest, "mode must be solo or duel")
		return
	}

	seed := s.seed()
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = n
	}

	opts, err := snake.OptionsFromConfig(s.cfg, q.Get("difficulty"), players, seed)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}
	match, err := snake.NewMatch(opts)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	identities := []string{strings.TrimSpace(q.Get("identity")), strings.TrimSpace(q.Get("identity2"))}
	for _, id := range identities {
		if len([]rune(id)) > ledger.MaxIdentityLen {
			writeError(rw, http.StatusBadRequest, "identity too long")
			return
		}
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := session.SessionID(fmt.Sprintf("ws-%d", playSessions.Add(1)))
	sess := session.NewChannelSession(id, 64)
	runner := session.NewRunner(match, s.logger, sess)
	logger := s.logger.With("session", id)
	logger.Info("match started", "mode", players, "category", opts.Category)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := runner.Run(ctx, func(res snake.Result) {
			var subs []session.Submission
			if s.submitter != nil {
				subs = s.submitter.Submit(ctx, res, identities)
			}
			sess.Send(session.ResultEvent{Result: res, Submissions: subs})
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("match ended with error", "error", err)
		}
	}()

	// Writer goroutine.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-sess.Events():
				msg := toServerMsg(evt)
				if err := writeWS(conn, msg); err != nil {
					cancel()
					return
				}
				if msg.Type == string(session.EventResult) {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over"),
						time.Now().Add(time.Second))
					return
				}
			}
		}
	}()

	// Reader loop.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg steerMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h, err := snake.ParseHeading(msg.Heading)
		if err != nil {
			continue
		}
		player := core.Player1
		if msg.Player == 2 {
			player = core.Player2
		}
		runner.Steer(player, h)
	}

	// Cleanup.
	sess.Close()
	<-runner.Done()
	logger.Info("match closed", "dropped_frames", sess.Dropped())
}

func toServerMsg(evt session.Event) serverMsg {
	switch e := evt.(type) {
	case session.FrameEvent:
		snap := e.Snapshot
		return serverMsg{Type: string(session.EventFrame), Frame: &snap}
	case session.ResultEvent:
		res := e.Result
		msg := serverMsg{Type: string(session.EventResult), Result: &res}
		for _, sub := range e.Submissions {
			sj := submissionJSON{Player: int(sub.Player), Identity: sub.Identity, Status: sub.Status()}
			if sub.Err == nil {
				sj.Outcome = sub.Outcome.String()
			}
			msg.Submissions = append(msg.Submissions, sj)
		}
		return msg
	default:
		return serverMsg{Type: string(evt.Type())}
	}
}

func writeWS(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
