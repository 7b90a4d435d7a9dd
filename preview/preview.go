// Package preview estimates move damage for display without disturbing the
// calc state the live engine resolves turns with.
package preview

import (
	"showdown-battleinfo/engine"
	"showdown-battleinfo/game"
)

const (
	// Nominal powers used for moves whose power is drawn at use time.
	MagnitudePreviewPower = engine.NominalMagnitudePower
	PresentPreviewPower   = engine.NominalPresentPower

	// AIRollPercentage is the 8th of the sixteen damage rolls.
	AIRollPercentage = 92
)

// Engine is the part of the damage engine the estimator drives. *engine.Engine
// satisfies it.
type Engine interface {
	MovePower(move string) int
	MoveEffect(move string) engine.Effect
	MoveType(move string) string
	ResolveDynamicMove(attacker game.BattlerID) string
	Calc() *engine.CalcState

	SetDamageCategoryOverride(attacker, defender game.BattlerID, move string)
	SetEffectiveMoveType(move string, attacker game.BattlerID)

	Weather() string
	BattlerHoldEffect(b game.BattlerID) engine.HoldEffect
	BattlerAbility(b game.BattlerID) string

	TypeEffectiveness(ctx *engine.DamageContext) engine.Modifier
	FixedDamage(ctx *engine.DamageContext) (int, bool)
	BaseDamage(ctx *engine.DamageContext) int
	ApplyPostRollModifiers(ctx *engine.DamageContext, damage int) int
}

// Estimator previews damage on top of an Engine.
type Estimator struct {
	eng Engine
}

// New returns an Estimator driving eng.
func New(eng Engine) *Estimator {
	return &Estimator{eng: eng}
}

// EstimateDamage returns the damage move would deal at the given roll
// percentile, with no crit and the nominal power for random-power moves.
// Status moves and immune matchups give 0. Fixed-damage moves give their
// fixed amount at every percentile. Any other hit deals at least 1.
//
// The engine's calc state is identical before and after the call.
func (e *Estimator) EstimateDamage(attacker, defender game.BattlerID, move string, percentile int) int {
	if move == "" || e.eng.MovePower(move) == 0 {
		return 0
	}
	if e.eng.MoveEffect(move) == engine.EffectNaturePower {
		move = e.eng.ResolveDynamicMove(attacker)
	}
	percentile = ClampPercentile(percentile)

	calc := e.eng.Calc()
	saved := *calc
	defer func() { *calc = saved }()

	calc.MagnitudeBasePower = MagnitudePreviewPower
	calc.PresentBasePower = PresentPreviewPower

	e.eng.SetDamageCategoryOverride(attacker, defender, move)
	e.eng.SetEffectiveMoveType(move, attacker)

	ctx := &engine.DamageContext{
		Attacker:      attacker,
		Defender:      defender,
		Move:          move,
		ChosenMove:    move,
		MoveType:      e.eng.MoveType(move),
		IsCrit:        false,
		RandomFactor:  false,
		UpdateFlags:   false,
		Weather:       e.eng.Weather(),
		HoldEffectAtk: e.eng.BattlerHoldEffect(attacker),
		HoldEffectDef: e.eng.BattlerHoldEffect(defender),
		AbilityAtk:    e.eng.BattlerAbility(attacker),
		AbilityDef:    e.eng.BattlerAbility(defender),
	}
	ctx.TypeEffectiveness = e.eng.TypeEffectiveness(ctx)

	if fixed, ok := e.eng.FixedDamage(ctx); ok {
		return fixed
	}

	dmg := e.eng.BaseDamage(ctx)
	if dmg <= 0 {
		return 0
	}
	dmg = dmg * percentile / 100
	dmg = e.eng.ApplyPostRollModifiers(ctx, dmg)
	if dmg == 0 {
		dmg = 1
	}
	return dmg
}

// ClampPercentile limits p to the 1..100 range the estimator works in.
func ClampPercentile(p int) int {
	if p < 1 {
		return 1
	}
	if p > 100 {
		return 100
	}
	return p
}

// Cell is one entry of a damage table. Dash marks a slot with no move or a
// move that deals no direct damage.
type Cell struct {
	Move   string
	Damage int
	Dash   bool
}

// Row is the preview of every move of one attacker against one defender.
type Row struct {
	Attacker game.BattlerID
	Defender game.BattlerID
	Cells    []Cell
}

// Table previews every move of each attacker against each defender at
// percentile. moves returns an attacker's move slots in order; empty names
// are kept as dashes so columns line up.
func (e *Estimator) Table(attackers, defenders []game.BattlerID, moves func(game.BattlerID) []string, percentile int) []Row {
	var rows []Row
	for _, a := range attackers {
		slots := moves(a)
		for _, d := range defenders {
			row := Row{Attacker: a, Defender: d, Cells: make([]Cell, 0, len(slots))}
			for _, m := range slots {
				if m == "" || e.eng.MovePower(m) == 0 {
					row.Cells = append(row.Cells, Cell{Move: m, Dash: true})
					continue
				}
				row.Cells = append(row.Cells, Cell{Move: m, Damage: e.EstimateDamage(a, d, m, percentile)})
			}
			rows = append(rows, row)
		}
	}
	return rows
}
