package engine

import "showdown-battleinfo/game"

// Modifier is an unsigned 4.12 fixed-point multiplier; ModifierOne is 1x.
type Modifier uint32

const (
	modifierShift = 12
	modifierRound = 1 << (modifierShift - 1)

	ModifierOne Modifier = 1 << modifierShift
)

// UQ converts a float multiplier to 4.12 fixed point, truncating.
func UQ(f float64) Modifier {
	return Modifier(f * float64(ModifierOne))
}

// MulModifier chains two modifiers, rounding to nearest.
func MulModifier(a, b Modifier) Modifier {
	return Modifier((uint64(a)*uint64(b) + modifierRound) >> modifierShift)
}

// ApplyModifier scales v by m, rounding halves down.
func ApplyModifier(v int, m Modifier) int {
	return int((int64(v)*int64(m) + modifierRound - 1) >> modifierShift)
}

const (
	CategoryPhysical = "Physical"
	CategorySpecial  = "Special"
	CategoryStatus   = "Status"
)

type Effect int

const (
	EffectHit Effect = iota
	EffectNaturePower
	EffectMagnitude
	EffectPresent
	EffectLevelDamage
	EffectFixedDamage
	EffectSuperFang
	EffectEndeavor
	EffectFinalGambit
	EffectWeatherBall
	EffectTerrainPulse
	EffectRevelationDance
	EffectShellSideArm
	EffectPhotonGeyser
	EffectFacade
	EffectHex
	EffectVenoshock
	EffectKnockOff
	EffectAcrobatics
	EffectEruption
	EffectFlail
	EffectFreezeDry
)

type HoldKind int

const (
	HoldNone HoldKind = iota
	HoldChoiceBand
	HoldChoiceSpecs
	HoldLifeOrb
	HoldExpertBelt
	HoldAssaultVest
	HoldAirBalloon
	HoldResistBerry
	HoldTypePower
)

// HoldEffect is what a held item does in damage calculation. Type is set for
// resist berries and type-boosting items.
type HoldEffect struct {
	Kind HoldKind
	Type string
}

type MoveResult uint8

const (
	MoveResultSuperEffective MoveResult = 1 << iota
	MoveResultNotVeryEffective
	MoveResultDoesntAffect
)

// CalcState is the engine state that move resolution writes as a side effect.
// Live turns and previews share one instance per engine.
type CalcState struct {
	DynamicMoveType    string
	SwapDamageCategory bool
	MagnitudeBasePower int
	PresentBasePower   int
	MoveResult         MoveResult
}

// DamageContext carries the inputs of a single damage calculation.
type DamageContext struct {
	Attacker          game.BattlerID
	Defender          game.BattlerID
	Move              string
	ChosenMove        string
	MoveType          string
	IsCrit            bool
	RandomFactor      bool
	UpdateFlags       bool
	Weather           string
	FixedBasePower    int
	HoldEffectAtk     HoldEffect
	HoldEffectDef     HoldEffect
	AbilityAtk        string
	AbilityDef        string
	TypeEffectiveness Modifier
}
