package parser

import (
	"fmt"
	"strings"

	"showdown-battleinfo/data"
	"showdown-battleinfo/game"
)

// Snapshot is a battle described as JSON by an API client instead of a
// protocol stream.
type Snapshot struct {
	GameType  string                  `json:"gametype"`
	Weather   string                  `json:"weather"`
	Terrain   string                  `json:"terrain"`
	TrickRoom int                     `json:"trick_room"`
	AISides   []string                `json:"ai_sides"`
	Sides     map[string]SideSnapshot `json:"sides"`
	Mons      []MonSnapshot           `json:"mons"`
}

type SideSnapshot struct {
	Tailwind    int `json:"tailwind"`
	Reflect     int `json:"reflect"`
	LightScreen int `json:"light_screen"`
	AuroraVeil  int `json:"aurora_veil"`
}

type MonSnapshot struct {
	Position string         `json:"position"`
	Species  string         `json:"species"`
	Name     string         `json:"name"`
	Level    int            `json:"level"`
	HP       int            `json:"hp"`
	MaxHP    int            `json:"max_hp"`
	Status   string         `json:"status"`
	Ability  string         `json:"ability"`
	Item     string         `json:"item"`
	Moves    []string       `json:"moves"`
	Boosts   map[string]int `json:"boosts"`
	Types    []string       `json:"types"`
	Stats    *game.Stats    `json:"stats"`
}

// BuildState turns a snapshot into a BattleState. Unknown moves fail with
// data.ErrUnknownMove and the closest known name.
func (p *Parser) BuildState(snap Snapshot) (*game.BattleState, error) {
	state := game.NewBattleState()
	if snap.GameType == "doubles" {
		state.Type |= game.BattleTypeDoubles
	}
	state.Weather = NormalizeWeather(snap.Weather)
	if t := strings.TrimSpace(snap.Terrain); t != "" {
		effect := terrainEffect(t)
		if _, ok := terrainOf(effect); !ok {
			return nil, fmt.Errorf("unknown terrain %q", snap.Terrain)
		}
		fieldStart(state, effect)
	}
	state.Field.TrickRoom = snap.TrickRoom
	if snap.TrickRoom > 0 {
		state.FieldEffects["Trick Room"] = true
	}
	for id, side := range snap.Sides {
		s, ok := game.PlayerSide(id)
		if !ok {
			return nil, fmt.Errorf("unknown side %q", id)
		}
		state.Sides[s] = game.SideTimers(side)
	}

	ai := make(map[string]bool, len(snap.AISides))
	for _, id := range snap.AISides {
		ai[id] = true
	}
	for _, id := range []string{"p1", "p2"} {
		state.Players[id] = &game.Player{ID: id, Name: id, AI: ai[id], Team: make(map[string]*game.Pokemon)}
	}

	for i, m := range snap.Mons {
		poke, err := p.buildMon(m)
		if err != nil {
			return nil, fmt.Errorf("mons[%d]: %w", i, err)
		}
		slot, ok := game.PositionBattler(m.Position)
		if !ok {
			return nil, fmt.Errorf("mons[%d]: unknown position %q", i, m.Position)
		}
		if int(slot) >= state.BattlersCount() {
			return nil, fmt.Errorf("mons[%d]: position %s needs a doubles battle", i, m.Position)
		}
		player := state.Players[m.Position[:2]]
		player.Team[poke.Name] = poke
		if player.Active == nil {
			player.Active = poke
		}
		state.Battlers[slot] = poke
	}
	return state, nil
}

func (p *Parser) buildMon(m MonSnapshot) (*game.Pokemon, error) {
	level := m.Level
	if level <= 0 {
		level = 100
	}
	name := m.Name
	if name == "" {
		name = m.Species
	}
	poke := p.newPokemon(name, m.Species, level)
	if m.Stats != nil {
		poke.Stats = *m.Stats
	}
	if len(m.Types) > 0 {
		poke.Type = m.Types
	}
	if poke.Stats.HP == 0 || len(poke.Type) == 0 {
		return nil, fmt.Errorf("%w: %q", data.ErrUnknownSpecies, m.Species)
	}

	poke.MaxHP = m.MaxHP
	if poke.MaxHP <= 0 {
		poke.MaxHP = poke.Stats.HP
	}
	poke.HP = m.HP
	if poke.HP <= 0 && m.Status != "fnt" {
		poke.HP = poke.MaxHP
	}
	if m.Status == "fnt" {
		poke.HP = 0
		poke.Fainted = true
	} else {
		poke.Status = m.Status
	}
	poke.Ability = m.Ability
	poke.Item = m.Item
	poke.Boosts = m.Boosts

	if len(m.Moves) > game.MaxMonMoves {
		return nil, fmt.Errorf("%d moves, at most %d", len(m.Moves), game.MaxMonMoves)
	}
	for _, name := range m.Moves {
		if _, ok := p.dex.Move(name); !ok {
			return nil, unknownMove(p.dex, name)
		}
		poke.Moves = append(poke.Moves, p.move(name))
	}
	return poke, nil
}

// CheckMove returns nil when the dex knows name.
func (p *Parser) CheckMove(name string) error {
	if _, ok := p.dex.Move(name); ok {
		return nil
	}
	return unknownMove(p.dex, name)
}

func unknownMove(dex *data.Dex, name string) error {
	if s, ok := dex.SuggestMove(name); ok {
		return fmt.Errorf("%w: %q (did you mean %q?)", data.ErrUnknownMove, name, dex.MoveName(s))
	}
	return fmt.Errorf("%w: %q", data.ErrUnknownMove, name)
}

// terrainEffect accepts "electric" as well as "Electric Terrain".
func terrainEffect(t string) string {
	if _, ok := terrainOf(t); ok {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:] + " Terrain"
}
