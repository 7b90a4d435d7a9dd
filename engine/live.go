package engine

import (
	"math/rand"

	"showdown-battleinfo/game"
)

const (
	MinRoll   = 85
	MaxRoll   = 100
	RollCount = MaxRoll - MinRoll + 1

	critChance = 24

	// Powers assumed for Magnitude and Present when no use-time roll exists.
	NominalMagnitudePower = 70
	NominalPresentPower   = 80
)

// Hit is the outcome of resolving one move against one target.
type Hit struct {
	Move          string
	Damage        int
	Roll          int
	Crit          bool
	Fixed         bool
	Effectiveness Modifier
}

// ResolveDamage resolves a move the way a battle turn does: random-power
// caches are rerolled, crits and the damage roll are drawn from rng, and the
// calc state keeps whatever the move left in it.
func (e *Engine) ResolveDamage(attacker, defender game.BattlerID, move string, rng *rand.Rand) Hit {
	switch e.MoveEffect(move) {
	case EffectMagnitude:
		e.calc.MagnitudeBasePower = rollMagnitude(rng)
	case EffectPresent:
		e.calc.PresentBasePower = rollPresent(rng)
	}
	crit := rng.Intn(critChance) == 0
	roll := MaxRoll - rng.Intn(RollCount)
	return e.resolve(attacker, defender, move, roll, crit)
}

// DamageRolls returns the non-critical damage for each of the sixteen rolls,
// lowest first. Magnitude and Present use their nominal powers. The calc
// state is restored before returning.
func (e *Engine) DamageRolls(attacker, defender game.BattlerID, move string) [RollCount]int {
	saved := e.calc
	defer func() { e.calc = saved }()
	e.calc.MagnitudeBasePower = NominalMagnitudePower
	e.calc.PresentBasePower = NominalPresentPower

	var out [RollCount]int
	for i := range out {
		out[i] = e.resolve(attacker, defender, move, MinRoll+i, false).Damage
	}
	return out
}

func (e *Engine) resolve(attacker, defender game.BattlerID, move string, roll int, crit bool) Hit {
	if e.MovePower(move) == 0 {
		return Hit{Move: move}
	}
	if e.MoveEffect(move) == EffectNaturePower {
		move = e.ResolveDynamicMove(attacker)
	}
	if e.MoveEffect(move) == EffectPresent && e.calc.PresentBasePower == 0 {
		// Present healed the target.
		return Hit{Move: move}
	}

	e.SetDamageCategoryOverride(attacker, defender, move)
	e.SetEffectiveMoveType(move, attacker)

	ctx := &DamageContext{
		Attacker:      attacker,
		Defender:      defender,
		Move:          move,
		ChosenMove:    move,
		MoveType:      e.MoveType(move),
		IsCrit:        crit,
		RandomFactor:  true,
		UpdateFlags:   true,
		Weather:       e.Weather(),
		HoldEffectAtk: e.BattlerHoldEffect(attacker),
		HoldEffectDef: e.BattlerHoldEffect(defender),
		AbilityAtk:    e.BattlerAbility(attacker),
		AbilityDef:    e.BattlerAbility(defender),
	}
	ctx.TypeEffectiveness = e.TypeEffectiveness(ctx)

	hit := Hit{Move: move, Roll: roll, Crit: crit, Effectiveness: ctx.TypeEffectiveness}
	if fixed, ok := e.FixedDamage(ctx); ok {
		hit.Fixed = true
		hit.Damage = fixed
		return hit
	}

	dmg := e.BaseDamage(ctx)
	if dmg <= 0 {
		return hit
	}
	if ctx.RandomFactor {
		dmg = dmg * roll / 100
	}
	dmg = e.ApplyPostRollModifiers(ctx, dmg)
	if dmg == 0 {
		dmg = 1
	}
	hit.Damage = dmg
	return hit
}

func rollMagnitude(rng *rand.Rand) int {
	r := rng.Intn(100)
	switch {
	case r < 5:
		return 10
	case r < 15:
		return 30
	case r < 35:
		return 50
	case r < 65:
		return 70
	case r < 85:
		return 90
	case r < 95:
		return 110
	}
	return 150
}

// rollPresent returns 0 when Present heals instead of hitting.
func rollPresent(rng *rand.Rand) int {
	r := rng.Intn(100)
	switch {
	case r < 40:
		return 40
	case r < 70:
		return 80
	case r < 80:
		return 120
	}
	return 0
}
