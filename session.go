package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"showdown-battleinfo/battleinfo"
	"showdown-battleinfo/data"
	"showdown-battleinfo/engine"
	"showdown-battleinfo/game"
	"showdown-battleinfo/parser"
	"showdown-battleinfo/preview"
)

var (
	errNoSession       = errors.New("no such session")
	errUnknownAction   = errors.New("unknown menu action")
	errMenuUnavailable = errors.New("battle info is not available for this battle")
	errWrongPage       = errors.New("action not available on this page")
)

// Protocol commands echoed to the browser as log lines.
var loggedCommands = map[string]bool{
	"turn":    true,
	"move":    true,
	"switch":  true,
	"drag":    true,
	"-damage": true,
	"faint":   true,
	"start":   true,
	"upkeep":  true,
	"win":     true,
	"tie":     true,
}

// session is one browser following one battle room.
type session struct {
	id     string
	dex    *data.Dex
	ai     func(string) bool
	redraw chan struct{}

	mu     sync.Mutex
	state  *game.BattleState
	parser *parser.Parser
	est    *preview.Estimator
	menu   *battleinfo.Menu
}

func newSession(dex *data.Dex, ai func(string) bool) *session {
	s := &session{
		id:     uuid.NewString(),
		dex:    dex,
		ai:     ai,
		redraw: make(chan struct{}, 1),
	}
	s.reset()
	return s
}

// reset starts over from an empty battle; joining a room replays its log.
func (s *session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = game.NewBattleState()
	s.parser = parser.New(s.dex, s.ai)
	s.est = preview.New(engine.New(s.dex, s.state))
	s.menu = battleinfo.NewMenu(s.state, 0)
}

// apply folds one websocket frame into the battle. It returns the lines worth
// echoing and whether the battle is over.
func (s *session) apply(frame string) (logged []string, ended bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range strings.Split(frame, "\n") {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		s.parser.ProcessLine(s.state, line)
		parts := strings.SplitN(line, "|", 3)
		if len(parts) >= 2 && loggedCommands[parts[1]] {
			logged = append(logged, line)
			if parts[1] == "win" || parts[1] == "tie" {
				ended = true
			}
		}
	}
	return logged, ended
}

func (s *session) render(percentile int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return battleinfo.Render(s.menu, s.est, percentile)
}

// act runs a menu action and returns the page shown afterwards.
func (s *session) act(ctx context.Context, action string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	switch action {
	case "open":
		if !battleinfo.Available(s.state.Type) {
			return s.menu.Page(), errMenuUnavailable
		}
		if s.menu.Closed() {
			first := s.state.FirstLivingBattlerOnSide(game.SidePlayer)
			if first == game.NoBattler {
				first = 0
			}
			s.menu = battleinfo.NewMenu(s.state, first)
		}
	case "next":
		err = s.menu.Next(ctx)
	case "exit":
		err = s.menu.Exit(ctx)
	case "mon-next", "mon-prev":
		if s.menu.Page() != battleinfo.PageMon {
			return s.menu.Page(), fmt.Errorf("%w: %s on %s", errWrongPage, action, s.menu.Page())
		}
		s.menu.SelectAdjacent(action == "mon-next")
	default:
		return s.menu.Page(), fmt.Errorf("%w: %q", errUnknownAction, action)
	}
	if err != nil {
		return s.menu.Page(), err
	}
	s.notify()
	return s.menu.Page(), nil
}

func (s *session) notify() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) add(s *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSession, id)
	}
	return s, nil
}

func (st *sessionStore) remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
