package battleinfo

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"showdown-battleinfo/game"
	"showdown-battleinfo/preview"
)

const (
	labelPlayer = "Player"
	labelAI     = "AI"
	labelFoe    = "Foe"
	labelNoData = "No data"
	dash        = "-"

	NoAIDamage = "No AI damage data available."
)

type TimerRow struct {
	Name   string
	Player int
	Foe    int
}

type FieldView struct {
	PlayerLabel  string
	FoeLabel     string
	Timers       []TimerRow
	TrickRoom    int
	Terrain      string
	TerrainTimer int
}

// BuildField reads the side and field timers. The foe column is labelled
// "AI" when the first living opponent is AI controlled.
func BuildField(s *game.BattleState) FieldView {
	v := FieldView{PlayerLabel: labelPlayer, FoeLabel: labelFoe}
	if foe := s.FirstLivingBattlerOnSide(game.SideOpponent); foe != game.NoBattler && s.BattlerHasAI(foe) {
		v.FoeLabel = labelAI
	}
	p, o := s.Sides[game.SidePlayer], s.Sides[game.SideOpponent]
	v.Timers = []TimerRow{
		{"Tailwind", p.Tailwind, o.Tailwind},
		{"Reflect", p.Reflect, o.Reflect},
		{"Light Screen", p.LightScreen, o.LightScreen},
		{"Aurora Veil", p.AuroraVeil, o.AuroraVeil},
	}
	v.TrickRoom = s.Field.TrickRoom
	v.Terrain = TerrainName(s.Terrain)
	if s.Terrain != game.TerrainNone {
		v.TerrainTimer = s.Field.Terrain
	}
	return v
}

func TerrainName(t string) string {
	if t == game.TerrainNone {
		return dash
	}
	return titleCase(t)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

type MoveLine struct {
	Name  string
	PP    int
	MaxPP int
	Empty bool
}

type StageLine struct {
	Stat string
	Text string
}

type MonView struct {
	Battler game.BattlerID
	Name    string
	Ability string
	Item    string
	Moves   [game.MaxMonMoves]MoveLine
	Stages  []StageLine
}

var stageStats = []struct{ key, label string }{
	{"atk", "Attack"},
	{"def", "Defense"},
	{"spa", "Sp. Atk"},
	{"spd", "Sp. Def"},
	{"spe", "Speed"},
}

func BuildMon(s *game.BattleState, b game.BattlerID) (MonView, bool) {
	p := s.Battler(b)
	if p == nil {
		return MonView{}, false
	}
	v := MonView{
		Battler: b,
		Name:    p.Name,
		Ability: p.Ability,
		Item:    p.Item,
	}
	if v.Ability == "" {
		v.Ability = dash
	}
	if v.Item == "" {
		v.Item = labelNoData
	}
	for i := range v.Moves {
		if i >= len(p.Moves) || p.Moves[i].Name == "" {
			v.Moves[i] = MoveLine{Name: dash, Empty: true}
			continue
		}
		m := p.Moves[i]
		v.Moves[i] = MoveLine{Name: m.Name, PP: m.PP, MaxPP: m.MaxPP}
	}
	for _, st := range stageStats {
		v.Stages = append(v.Stages, StageLine{Stat: st.label, Text: StatStageText(p.StatStage(st.key))})
	}
	return v, true
}

// StatStageText formats a 0..12 stage relative to neutral: "-" at neutral,
// otherwise "+n" or "-n".
func StatStageText(stage int) string {
	switch {
	case stage == game.DefaultStatStage:
		return dash
	case stage > game.DefaultStatStage:
		return "+" + strconv.Itoa(stage-game.DefaultStatStage)
	}
	return "-" + strconv.Itoa(game.DefaultStatStage-stage)
}

// DamageView is the AI damage page. Singles shows one attacker against one
// defender; any larger field uses the doubles grid, capped at two by two.
type DamageView struct {
	Empty     bool
	Doubles   bool
	Attackers []string
	Defenders []string
	Rows      []preview.Row
}

const maxGridSide = 2

func BuildDamage(s *game.BattleState, est *preview.Estimator, percentile int) DamageView {
	attackers := s.LivingBattlersOnSide(game.SideOpponent)
	defenders := s.LivingBattlersOnSide(game.SidePlayer)
	if len(attackers) == 0 || len(defenders) == 0 {
		return DamageView{Empty: true}
	}
	v := DamageView{Doubles: len(attackers) > 1 || len(defenders) > 1}
	if len(attackers) > maxGridSide {
		attackers = attackers[:maxGridSide]
	}
	if len(defenders) > maxGridSide {
		defenders = defenders[:maxGridSide]
	}
	for _, b := range attackers {
		v.Attackers = append(v.Attackers, s.Battler(b).Name)
	}
	for _, b := range defenders {
		v.Defenders = append(v.Defenders, s.Battler(b).Name)
	}
	v.Rows = est.Table(attackers, defenders, moveSlots(s), percentile)
	return v
}

func moveSlots(s *game.BattleState) func(game.BattlerID) []string {
	return func(b game.BattlerID) []string {
		slots := make([]string, game.MaxMonMoves)
		if p := s.Battler(b); p != nil {
			for i := 0; i < len(p.Moves) && i < game.MaxMonMoves; i++ {
				slots[i] = p.Moves[i].Name
			}
		}
		return slots
	}
}

// BestMove picks the attacker's move with the highest preview damage against
// def. ok is false when no known move deals damage.
func BestMove(s *game.BattleState, est *preview.Estimator, atk, def game.BattlerID, percentile int) (move string, damage int, ok bool) {
	for _, m := range moveSlots(s)(atk) {
		if m == "" {
			continue
		}
		if d := est.EstimateDamage(atk, def, m, percentile); d > damage {
			move, damage, ok = m, d, true
		}
	}
	return move, damage, ok
}
