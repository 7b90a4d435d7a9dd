// Package battleinfo builds the Battle Info screens: field timers, the
// selected battler's detail and the AI damage table.
package battleinfo

import (
	"context"

	"github.com/looplab/fsm"

	"showdown-battleinfo/game"
)

const (
	PageField    = "field"
	PageMon      = "mon"
	PageAIDamage = "ai_damage"
	PageClosed   = "closed"
)

const (
	eventNext = "next"
	eventExit = "exit"
)

const (
	trainerStyle = game.BattleTypeTrainer |
		game.BattleTypeFrontier |
		game.BattleTypeEReaderTrainer |
		game.BattleTypeTrainerHill |
		game.BattleTypeSecretBase
	unsupported = game.BattleTypeLink |
		game.BattleTypeRecorded |
		game.BattleTypeRecordedLink |
		game.BattleTypeSafari |
		game.BattleTypeWallyTutorial
)

// Available reports whether the menu may be opened for a battle of type t.
func Available(t game.BattleType) bool {
	return t&trainerStyle != 0 && t&unsupported == 0
}

// Menu is one open Battle Info screen. Pages cycle Field, Mon, AI damage and
// back to Field; Exit closes it for good.
type Menu struct {
	state    *game.BattleState
	selected game.BattlerID
	fsm      *fsm.FSM
}

func NewMenu(state *game.BattleState, initial game.BattlerID) *Menu {
	m := &Menu{state: state, selected: initial}
	m.fsm = fsm.NewFSM(
		PageField,
		fsm.Events{
			{Name: eventNext, Src: []string{PageField}, Dst: PageMon},
			{Name: eventNext, Src: []string{PageMon}, Dst: PageAIDamage},
			{Name: eventNext, Src: []string{PageAIDamage}, Dst: PageField},
			{Name: eventExit, Src: []string{PageField, PageMon, PageAIDamage}, Dst: PageClosed},
		},
		fsm.Callbacks{
			"enter_" + PageMon: func(_ context.Context, _ *fsm.Event) {
				if !m.state.IsBattlerAlive(m.selected) {
					m.step(true)
				}
			},
		},
	)
	return m
}

func (m *Menu) Page() string {
	return m.fsm.Current()
}

func (m *Menu) Closed() bool {
	return m.fsm.Is(PageClosed)
}

func (m *Menu) Selected() game.BattlerID {
	return m.selected
}

func (m *Menu) State() *game.BattleState {
	return m.state
}

func (m *Menu) Next(ctx context.Context) error {
	return m.fsm.Event(ctx, eventNext)
}

func (m *Menu) Exit(ctx context.Context) error {
	return m.fsm.Event(ctx, eventExit)
}

// SelectAdjacent moves the Mon page to the next living battler in slot order,
// wrapping around. It reports whether the selection changed; on other pages
// it does nothing.
func (m *Menu) SelectAdjacent(forward bool) bool {
	if !m.fsm.Is(PageMon) {
		return false
	}
	return m.step(forward)
}

func (m *Menu) step(forward bool) bool {
	count := m.state.BattlersCount()
	original := m.selected
	b := int(m.selected)
	if b < 0 || b >= count {
		b = 0
	}
	for i := 0; i < count; i++ {
		if forward {
			b = (b + 1) % count
		} else {
			b = (b + count - 1) % count
		}
		if m.state.IsBattlerAlive(game.BattlerID(b)) {
			m.selected = game.BattlerID(b)
			break
		}
	}
	return m.selected != original
}
