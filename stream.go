package main

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"showdown-battleinfo/client"
)

// handleConnect follows a Showdown battle room and streams the Battle Info
// screen as server-sent events. The first event carries the session id the
// page uses for menu actions.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(r.URL.Query().Get("roomid"))
	if roomID == "" {
		http.Error(w, "room id must not be empty", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(roomID, "battle-") {
		roomID = "battle-" + roomID
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sess := newSession(s.dex, s.cfg.HasAI)
	s.sessions.add(sess)
	defer s.sessions.remove(sess.id)

	log := s.log.With(zap.String("room", roomID), zap.String("session", sess.id))
	log.Info("stream opened", zap.String("remote", r.RemoteAddr))
	out := &eventWriter{w: w, f: flusher}
	out.event("session", sess.id)

	ctx := r.Context()
	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for attempt := 1; ; attempt++ {
		ended, err := s.follow(ctx, out, sess, roomID, ping.C, log)
		if ended || ctx.Err() != nil {
			log.Info("stream closed", zap.Bool("battle_ended", ended))
			return
		}
		log.Warn("showdown connection lost", zap.Int("attempt", attempt), zap.Error(err))
		if attempt >= s.cfg.MaxReconnects {
			out.data(fmt.Sprintf("<p class='error'>Persistent error talking to Showdown: %s</p>", html.EscapeString(err.Error())))
			return
		}
		out.data(fmt.Sprintf("<p>Reconnecting to Showdown... (attempt %d/%d)</p>", attempt+1, s.cfg.MaxReconnects))
		select {
		case <-time.After(s.cfg.ReconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

// follow runs one Showdown connection until it fails, the battle ends or the
// browser goes away.
func (s *Server) follow(ctx context.Context, out *eventWriter, sess *session, roomID string, ping <-chan time.Time, log *zap.Logger) (bool, error) {
	sc, err := client.NewShowdownClient(ctx, s.cfg.ShowdownURL, log)
	if err != nil {
		out.data(fmt.Sprintf("<p>Error connecting to Showdown: %s</p>", html.EscapeString(err.Error())))
		return false, err
	}
	defer sc.Close()

	sess.reset()
	if err := sc.JoinRoom(roomID); err != nil {
		out.data(fmt.Sprintf("<p>Error joining room: %s</p>", html.EscapeString(err.Error())))
		return false, fmt.Errorf("join %s: %w", roomID, err)
	}
	out.data(fmt.Sprintf("<p>Connected to room <strong>%s</strong>. Waiting for events...</p>", html.EscapeString(roomID)))

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	messages := make(chan string)
	errc := make(chan error, 1)
	go func() { errc <- sc.Listen(listenCtx, messages) }()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ping:
			out.comment("ping")
		case err := <-errc:
			if err == nil {
				err = ctx.Err()
			}
			return false, err
		case <-sess.redraw:
			out.data(sess.render(s.cfg.RollPercentage))
		case msg := <-messages:
			logged, ended := sess.apply(msg)
			for _, line := range logged {
				out.data(fmt.Sprintf("<p class='logline'>%s</p>", html.EscapeString(line)))
			}
			if len(logged) > 0 {
				out.data(sess.render(s.cfg.RollPercentage))
			}
			if ended {
				return true, nil
			}
		}
	}
}

type eventWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (e *eventWriter) event(name, payload string) {
	fmt.Fprintf(e.w, "event: %s\n", name)
	e.data(payload)
}

// data sends one message; multi-line payloads become multiple data fields.
func (e *eventWriter) data(payload string) {
	for _, line := range strings.Split(payload, "\n") {
		fmt.Fprintf(e.w, "data: %s\n", line)
	}
	fmt.Fprint(e.w, "\n")
	e.f.Flush()
}

func (e *eventWriter) comment(text string) {
	fmt.Fprintf(e.w, ": %s\n\n", text)
	e.f.Flush()
}
