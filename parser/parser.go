// Package parser folds Showdown protocol lines into a game.BattleState.
package parser

import (
	"strconv"
	"strings"

	"showdown-battleinfo/data"
	"showdown-battleinfo/game"
)

const (
	screenTurns    = 5
	tailwindTurns  = 4
	trickRoomTurns = 5
	terrainTurns   = 5
)

// Parser tracks one battle. AI reports whether a Showdown side id is
// controlled by the AI; nil means neither side is.
type Parser struct {
	dex *data.Dex
	AI  func(side string) bool
}

func New(dex *data.Dex, ai func(side string) bool) *Parser {
	return &Parser{dex: dex, AI: ai}
}

func (p *Parser) ParseLog(logText string) (*game.BattleState, error) {
	state := game.NewBattleState()
	lines := strings.Split(logText, "\n")

	for _, line := range lines {
		p.ProcessLine(state, line)
	}

	return state, nil
}

func (p *Parser) ProcessLine(state *game.BattleState, line string) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 {
		return
	}
	switch parts[1] {
	case "gametype":
		if len(parts) >= 3 && (parts[2] == "doubles" || parts[2] == "triples") {
			state.Type |= game.BattleTypeDoubles
		}
	case "player":
		if len(parts) >= 4 && parts[3] != "" {
			id := parts[2]
			player := p.player(state, id)
			player.Name = parts[3]
		}
	case "poke":
		if len(parts) >= 4 {
			player := p.player(state, parts[2])
			species, level := splitDetails(parts[3])
			if _, ok := player.Team[species]; !ok {
				player.Team[species] = p.newPokemon(species, species, level)
			}
		}
	case "team":
		if len(parts) >= 5 {
			player := p.player(state, parts[2])
			if poke, ok := player.Team[parts[3]]; ok {
				poke.Moves = poke.Moves[:0]
				for _, mn := range strings.Split(parts[4], ", ") {
					poke.Moves = append(poke.Moves, p.move(mn))
				}
			}
		}
	case "switch", "drag", "replace":
		if len(parts) >= 4 {
			p.switchIn(state, parts)
		}
	case "move":
		if len(parts) >= 4 && !fromEffect(parts[4:]) {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				p.useMove(poke, parts[3])
			}
		}
	case "-damage", "-heal", "-sethp", "damage":
		if len(parts) >= 4 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				setCondition(poke, parts[3])
			}
		}
	case "faint":
		if len(parts) >= 3 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Fainted = true
				poke.HP = 0
			}
		}
	case "turn":
		if len(parts) >= 3 {
			t, err := strconv.Atoi(parts[2])
			if err == nil {
				state.Turn = t
			}
		}
	case "upkeep":
		state.Tick()
	case "-status":
		if len(parts) >= 4 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Status = parts[3]
			}
		}
	case "-curestatus":
		if len(parts) >= 3 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Status = ""
			}
		}
	case "-boost", "-unboost", "-setboost":
		if len(parts) >= 5 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				amount, _ := strconv.Atoi(parts[4])
				boost(poke, parts[1], parts[3], amount)
			}
		}
	case "-clearboost", "-clearpositiveboost", "-clearnegativeboost":
		if len(parts) >= 3 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				clearBoosts(poke, parts[1])
			}
		}
	case "-clearallboost":
		for _, poke := range state.Battlers {
			if poke != nil {
				poke.Boosts = nil
			}
		}
	case "-weather":
		if len(parts) >= 3 {
			state.Weather = NormalizeWeather(parts[2])
		}
	case "-fieldstart":
		if len(parts) >= 3 {
			fieldStart(state, effectName(parts[2]))
		}
	case "-fieldend":
		if len(parts) >= 3 {
			fieldEnd(state, effectName(parts[2]))
		}
	case "-sidestart", "-sideend":
		if len(parts) >= 4 {
			sideCondition(state, parts[2], effectName(parts[3]), parts[1] == "-sidestart")
		}
	case "-ability":
		if len(parts) >= 4 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Ability = parts[3]
			}
		}
	case "-item":
		if len(parts) >= 4 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Item = parts[3]
			}
		}
	case "-enditem":
		if len(parts) >= 3 {
			if poke := pokemonAt(state, parts[2]); poke != nil {
				poke.Item = ""
			}
		}
	}
}

func (p *Parser) player(state *game.BattleState, id string) *game.Player {
	if player, ok := state.Players[id]; ok {
		return player
	}
	player := &game.Player{
		ID:   id,
		Team: make(map[string]*game.Pokemon),
	}
	if p.AI != nil {
		player.AI = p.AI(id)
	}
	state.Players[id] = player
	return player
}

func (p *Parser) newPokemon(name, species string, level int) *game.Pokemon {
	poke := &game.Pokemon{Name: name, Species: species, Level: level}
	if info, ok := p.dex.Pokemon(species); ok {
		poke.Type = info.Types
		poke.Stats = game.CalcStats(game.Stats(info.BaseStats), level)
	}
	return poke
}

// switchIn handles "|switch|p1a: Nick|Species, L50, M|hp/max status".
func (p *Parser) switchIn(state *game.BattleState, parts []string) {
	pos, name, ok := splitIdent(parts[2])
	if !ok {
		return
	}
	slot, ok := game.PositionBattler(pos)
	if !ok {
		return
	}
	player := p.player(state, pos[:2])
	species, level := splitDetails(parts[3])

	poke, ok := player.Team[name]
	if !ok {
		// Team preview keys by species; adopt that entry under the nickname.
		if pre, found := player.Team[species]; found && pre.Name == species && name != species {
			delete(player.Team, species)
			pre.Name = name
			poke = pre
		} else {
			poke = p.newPokemon(name, species, level)
		}
		player.Team[name] = poke
	}
	if poke.Species != species || poke.Level != level {
		fresh := p.newPokemon(name, species, level)
		poke.Species, poke.Level, poke.Type, poke.Stats = fresh.Species, fresh.Level, fresh.Type, fresh.Stats
	}
	if len(parts) >= 5 {
		setCondition(poke, parts[4])
	}
	poke.Boosts = nil
	state.Battlers[slot] = poke
	if strings.HasSuffix(pos, "a") {
		player.Active = poke
	}
}

func (p *Parser) move(name string) game.Move {
	m := game.Move{Name: name}
	if info, ok := p.dex.Move(name); ok {
		m.Name = info.Name
		m.Type = info.Type
		m.Power = info.Power
		m.Category = info.Category
		m.MaxPP = info.PP * 8 / 5
		m.PP = m.MaxPP
	}
	return m
}

// useMove records a revealed move and spends one PP.
func (p *Parser) useMove(poke *game.Pokemon, name string) {
	id := data.ToID(name)
	for i := range poke.Moves {
		if data.ToID(poke.Moves[i].Name) == id {
			if poke.Moves[i].PP > 0 {
				poke.Moves[i].PP--
			}
			return
		}
	}
	if len(poke.Moves) >= game.MaxMonMoves {
		return
	}
	m := p.move(name)
	if m.PP > 0 {
		m.PP--
	}
	poke.Moves = append(poke.Moves, m)
}

// pokemonAt finds the Pokemon named by an identifier such as "p2a: Nick" or
// "p2: Nick".
func pokemonAt(state *game.BattleState, ident string) *game.Pokemon {
	pos, name, ok := splitIdent(ident)
	if !ok {
		return nil
	}
	if slot, ok := game.PositionBattler(pos); ok {
		if poke := state.Battlers[slot]; poke != nil && poke.Name == name {
			return poke
		}
	}
	if player, ok := state.Players[pos[:2]]; ok {
		return player.Team[name]
	}
	return nil
}

func splitIdent(ident string) (pos, name string, ok bool) {
	info := strings.SplitN(ident, ": ", 2)
	if len(info) != 2 || len(info[0]) < 2 {
		return "", "", false
	}
	return info[0], info[1], true
}

// splitDetails parses "Garchomp, L82, M" into species and level (100 when
// omitted).
func splitDetails(details string) (string, int) {
	fields := strings.Split(details, ",")
	species := strings.TrimSpace(fields[0])
	level := 100
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if strings.HasPrefix(f, "L") {
			if l, err := strconv.Atoi(f[1:]); err == nil {
				level = l
			}
		}
	}
	return species, level
}

// setCondition applies "hp/max status" or "0 fnt".
func setCondition(poke *game.Pokemon, cond string) {
	fields := strings.Fields(cond)
	if len(fields) == 0 {
		return
	}
	hpInfo := strings.Split(fields[0], "/")
	hp, err := strconv.Atoi(hpInfo[0])
	if err != nil {
		return
	}
	poke.HP = hp
	if len(hpInfo) == 2 {
		if maxhp, err := strconv.Atoi(hpInfo[1]); err == nil {
			poke.MaxHP = maxhp
		}
	}
	poke.Status = ""
	if len(fields) > 1 {
		if fields[1] == "fnt" {
			poke.Fainted = true
		} else {
			poke.Status = fields[1]
		}
	}
	if hp > 0 {
		poke.Fainted = false
	}
}

func boost(poke *game.Pokemon, kind, stat string, amount int) {
	if poke.Boosts == nil {
		poke.Boosts = make(map[string]int)
	}
	switch kind {
	case "-boost":
		poke.Boosts[stat] += amount
	case "-unboost":
		poke.Boosts[stat] -= amount
	case "-setboost":
		poke.Boosts[stat] = amount
	}
}

func clearBoosts(poke *game.Pokemon, kind string) {
	for stat, v := range poke.Boosts {
		switch {
		case kind == "-clearboost",
			kind == "-clearpositiveboost" && v > 0,
			kind == "-clearnegativeboost" && v < 0:
			delete(poke.Boosts, stat)
		}
	}
}

// fromEffect reports whether a move line was called by another effect.
func fromEffect(tags []string) bool {
	for _, t := range tags {
		if strings.HasPrefix(t, "[from]") {
			return true
		}
	}
	return false
}

// effectName strips the "move: " / "ability: " prefix of an effect.
func effectName(effect string) string {
	if i := strings.Index(effect, ": "); i >= 0 {
		return effect[i+2:]
	}
	return effect
}

// NormalizeWeather maps a Showdown weather id to a game weather constant.
func NormalizeWeather(w string) string {
	switch data.ToID(w) {
	case "raindance", "primordialsea", "rain":
		return game.WeatherRain
	case "sunnyday", "desolateland", "sun":
		return game.WeatherSun
	case "sandstorm", "sand":
		return game.WeatherSand
	case "hail":
		return game.WeatherHail
	case "snow", "snowscape":
		return game.WeatherSnow
	}
	return game.WeatherNone
}

func terrainOf(effect string) (string, bool) {
	switch data.ToID(effect) {
	case "electricterrain":
		return game.TerrainElectric, true
	case "grassyterrain":
		return game.TerrainGrassy, true
	case "mistyterrain":
		return game.TerrainMisty, true
	case "psychicterrain":
		return game.TerrainPsychic, true
	}
	return "", false
}

func fieldStart(state *game.BattleState, effect string) {
	state.FieldEffects[effect] = true
	if t, ok := terrainOf(effect); ok {
		for name := range state.FieldEffects {
			if _, other := terrainOf(name); other && name != effect {
				delete(state.FieldEffects, name)
			}
		}
		state.Terrain = t
		state.Field.Terrain = terrainTurns
		return
	}
	if data.ToID(effect) == "trickroom" {
		state.Field.TrickRoom = trickRoomTurns
	}
}

func fieldEnd(state *game.BattleState, effect string) {
	delete(state.FieldEffects, effect)
	if t, ok := terrainOf(effect); ok && state.Terrain == t {
		state.Terrain = game.TerrainNone
		state.Field.Terrain = 0
		return
	}
	if data.ToID(effect) == "trickroom" {
		state.Field.TrickRoom = 0
	}
}

// sideCondition handles "|-sidestart|p1: Name|Reflect".
func sideCondition(state *game.BattleState, ident, effect string, start bool) {
	if len(ident) < 2 {
		return
	}
	side, ok := game.PlayerSide(ident[:2])
	if !ok {
		return
	}
	timers := &state.Sides[side]
	var timer *int
	turns := screenTurns
	switch data.ToID(effect) {
	case "reflect":
		timer = &timers.Reflect
	case "lightscreen":
		timer = &timers.LightScreen
	case "auroraveil":
		timer = &timers.AuroraVeil
	case "tailwind":
		timer = &timers.Tailwind
		turns = tailwindTurns
	default:
		return
	}
	if start {
		*timer = turns
	} else {
		*timer = 0
	}
}
