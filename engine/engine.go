package engine

import (
	"showdown-battleinfo/data"
	"showdown-battleinfo/game"
)

// Engine computes move damage for the battlers of a BattleState. Resolving a
// move writes CalcState as a side effect; callers that only want to look
// must save and restore Calc().
type Engine struct {
	dex   *data.Dex
	state *game.BattleState
	calc  CalcState
}

func New(dex *data.Dex, state *game.BattleState) *Engine {
	return &Engine{dex: dex, state: state}
}

func (e *Engine) Calc() *CalcState {
	return &e.calc
}

func (e *Engine) State() *game.BattleState {
	return e.state
}

func (e *Engine) moveData(move string) (data.MoveData, bool) {
	return e.dex.Move(move)
}

// MovePower reports the listed base power. Damaging moves whose power is
// computed at use time (Seismic Toss, Magnitude, Flail...) and moves that turn
// into another move report 1.
func (e *Engine) MovePower(move string) int {
	m, ok := e.moveData(move)
	if !ok {
		return 0
	}
	if e.MoveEffect(move) == EffectNaturePower {
		return 1
	}
	if m.Category == CategoryStatus {
		return 0
	}
	if m.Power == 0 {
		return 1
	}
	return m.Power
}

func (e *Engine) MoveEffect(move string) Effect {
	return moveEffects[data.ToID(move)]
}

func (e *Engine) MoveCategory(move string) string {
	m, ok := e.moveData(move)
	if !ok {
		return CategoryStatus
	}
	if e.calc.SwapDamageCategory && m.Category == CategorySpecial {
		return CategoryPhysical
	}
	return m.Category
}

// MoveType returns the type the move is used as, after SetEffectiveMoveType.
func (e *Engine) MoveType(move string) string {
	if e.calc.DynamicMoveType != "" {
		return e.calc.DynamicMoveType
	}
	if m, ok := e.moveData(move); ok {
		return m.Type
	}
	return ""
}

func (e *Engine) BattlerAbility(b game.BattlerID) string {
	if p := e.state.Battler(b); p != nil {
		return data.ToID(p.Ability)
	}
	return ""
}

func (e *Engine) BattlerHoldEffect(b game.BattlerID) HoldEffect {
	p := e.state.Battler(b)
	if p == nil || data.ToID(p.Ability) == "klutz" {
		return HoldEffect{}
	}
	return HoldEffectOf(p.Item)
}

func (e *Engine) BattlerSide(b game.BattlerID) game.Side {
	return b.Side()
}

func (e *Engine) IsBattlerAlive(b game.BattlerID) bool {
	return e.state.IsBattlerAlive(b)
}

// Weather returns the active weather, or none while a Cloud Nine or Air Lock
// holder is on the field.
func (e *Engine) Weather() string {
	for b := game.BattlerID(0); int(b) < e.state.BattlersCount(); b++ {
		if !e.state.IsBattlerAlive(b) {
			continue
		}
		switch e.BattlerAbility(b) {
		case "cloudnine", "airlock":
			return game.WeatherNone
		}
	}
	return e.state.Weather
}

func (e *Engine) battlerTypes(b game.BattlerID) []string {
	p := e.state.Battler(b)
	if p == nil {
		return nil
	}
	if len(p.Type) > 0 {
		return p.Type
	}
	return e.dex.PokemonTypes(p.Species)
}

func (e *Engine) hasType(b game.BattlerID, t string) bool {
	for _, bt := range e.battlerTypes(b) {
		if bt == t {
			return true
		}
	}
	return false
}

func levelOf(p *game.Pokemon) int {
	if p.Level <= 0 {
		return 100
	}
	return p.Level
}

// ResolveDynamicMove returns the move Nature Power becomes for the current
// terrain.
func (e *Engine) ResolveDynamicMove(attacker game.BattlerID) string {
	if move, ok := naturePowerByTerrain[e.state.Terrain]; ok {
		return move
	}
	return naturePowerDefault
}

// SetDamageCategoryOverride decides whether a special move that picks its
// category from the user's stats hits physically this time.
func (e *Engine) SetDamageCategoryOverride(attacker, defender game.BattlerID, move string) {
	swap := false
	a := e.state.Battler(attacker)
	d := e.state.Battler(defender)
	if a != nil {
		atk := applyStage(a.Stats.Atk, a.StatStage("atk"))
		spa := applyStage(a.Stats.SpA, a.StatStage("spa"))
		switch e.MoveEffect(move) {
		case EffectPhotonGeyser:
			swap = atk > spa
		case EffectShellSideArm:
			if d != nil {
				def := max(1, applyStage(d.Stats.Def, d.StatStage("def")))
				spd := max(1, applyStage(d.Stats.SpD, d.StatStage("spd")))
				swap = atk*spd > spa*def
			}
		}
	}
	e.calc.SwapDamageCategory = swap
}

// SetEffectiveMoveType records the type the move changes into for this use,
// if any.
func (e *Engine) SetEffectiveMoveType(move string, attacker game.BattlerID) {
	e.calc.DynamicMoveType = ""
	m, ok := e.moveData(move)
	if !ok || e.state.Battler(attacker) == nil {
		return
	}
	switch e.MoveEffect(move) {
	case EffectWeatherBall:
		e.calc.DynamicMoveType = weatherBallTypes[e.Weather()]
	case EffectTerrainPulse:
		e.calc.DynamicMoveType = terrainPulseTypes[e.state.Terrain]
	case EffectRevelationDance:
		if types := e.battlerTypes(attacker); len(types) > 0 {
			e.calc.DynamicMoveType = types[0]
		}
	}
	if e.calc.DynamicMoveType != "" {
		return
	}
	ability := e.BattlerAbility(attacker)
	if ability == "normalize" {
		e.calc.DynamicMoveType = "Normal"
		return
	}
	if m.Type == "Normal" {
		e.calc.DynamicMoveType = ateAbilities[ability]
	}
}

// defAbility is the defender's ability as seen by the attacker; Mold Breaker
// and its variants suppress it.
func (e *Engine) defAbility(ctx *DamageContext) string {
	if moldBreakers[ctx.AbilityAtk] {
		return ""
	}
	return ctx.AbilityDef
}

func (e *Engine) TypeEffectiveness(ctx *DamageContext) Modifier {
	mod := ModifierOne
	if ctx.MoveType != "" {
		for _, t := range e.battlerTypes(ctx.Defender) {
			m := typeModifier(ctx.MoveType, t)
			if t == "Water" && e.MoveEffect(ctx.Move) == EffectFreezeDry {
				m = UQ(2)
			}
			if m == 0 && t == "Ghost" && (ctx.MoveType == "Normal" || ctx.MoveType == "Fighting") &&
				(ctx.AbilityAtk == "scrappy" || ctx.AbilityAtk == "mindseye") {
				m = ModifierOne
			}
			mod = MulModifier(mod, m)
		}
	}
	if mod != 0 {
		mod = e.abilityImmunity(ctx, mod)
	}
	if ctx.UpdateFlags {
		e.calc.MoveResult = moveResultFor(mod)
	}
	return mod
}

func (e *Engine) abilityImmunity(ctx *DamageContext, mod Modifier) Modifier {
	if ctx.MoveType == "Ground" && ctx.HoldEffectDef.Kind == HoldAirBalloon {
		return 0
	}
	immune := ""
	switch e.defAbility(ctx) {
	case "levitate", "eartheater":
		immune = "Ground"
	case "voltabsorb", "lightningrod", "motordrive":
		immune = "Electric"
	case "waterabsorb", "stormdrain", "dryskin":
		immune = "Water"
	case "flashfire", "wellbakedbody":
		immune = "Fire"
	case "sapsipper":
		immune = "Grass"
	case "wonderguard":
		if mod <= ModifierOne {
			return 0
		}
	}
	if immune != "" && ctx.MoveType == immune {
		return 0
	}
	return mod
}

func moveResultFor(mod Modifier) MoveResult {
	switch {
	case mod == 0:
		return MoveResultDoesntAffect
	case mod > ModifierOne:
		return MoveResultSuperEffective
	case mod < ModifierOne:
		return MoveResultNotVeryEffective
	}
	return 0
}

// FixedDamage returns the damage of moves that ignore stats. The second
// result is false for every other move.
func (e *Engine) FixedDamage(ctx *DamageContext) (int, bool) {
	atk := e.state.Battler(ctx.Attacker)
	def := e.state.Battler(ctx.Defender)
	if atk == nil || def == nil {
		return 0, false
	}
	atkHP, _ := atk.CurrentHP()
	defHP, _ := def.CurrentHP()

	var dmg int
	switch e.MoveEffect(ctx.Move) {
	case EffectLevelDamage:
		dmg = levelOf(atk)
	case EffectFixedDamage:
		dmg = fixedDamageValues[data.ToID(ctx.Move)]
	case EffectSuperFang:
		dmg = max(1, defHP/2)
	case EffectEndeavor:
		dmg = max(0, defHP-atkHP)
	case EffectFinalGambit:
		dmg = atkHP
	default:
		return 0, false
	}
	if ctx.TypeEffectiveness == 0 {
		return 0, true
	}
	return dmg, true
}

// BaseDamage runs the stat formula and every modifier that applies before the
// damage roll. It never rolls.
func (e *Engine) BaseDamage(ctx *DamageContext) int {
	atk := e.state.Battler(ctx.Attacker)
	def := e.state.Battler(ctx.Defender)
	if atk == nil || def == nil || ctx.TypeEffectiveness == 0 {
		return 0
	}
	category := e.MoveCategory(ctx.Move)
	if category == CategoryStatus {
		return 0
	}
	physical := category == CategoryPhysical

	power := e.movePower(ctx)
	attack := e.attackStat(ctx, physical)
	defense := e.defenseStat(ctx, physical)

	dmg := (2*levelOf(atk)/5+2)*power*attack/defense/50 + 2
	dmg = ApplyModifier(dmg, e.weatherModifier(ctx))
	if ctx.IsCrit {
		dmg = ApplyModifier(dmg, UQ(1.5))
	}
	dmg = ApplyModifier(dmg, e.stabModifier(ctx))
	dmg = ApplyModifier(dmg, ctx.TypeEffectiveness)
	if physical && atk.Status == "brn" && ctx.AbilityAtk != "guts" && e.MoveEffect(ctx.Move) != EffectFacade {
		dmg = ApplyModifier(dmg, UQ(0.5))
	}
	dmg = ApplyModifier(dmg, e.otherModifier(ctx, physical))
	return dmg
}

func (e *Engine) movePower(ctx *DamageContext) int {
	atk := e.state.Battler(ctx.Attacker)
	def := e.state.Battler(ctx.Defender)

	power := ctx.FixedBasePower
	if power == 0 {
		power = e.MovePower(ctx.Move)
	}
	switch e.MoveEffect(ctx.Move) {
	case EffectMagnitude:
		power = e.calc.MagnitudeBasePower
	case EffectPresent:
		power = e.calc.PresentBasePower
	case EffectWeatherBall:
		if ctx.Weather != game.WeatherNone {
			power *= 2
		}
	case EffectTerrainPulse:
		if e.state.Terrain != game.TerrainNone {
			power *= 2
		}
	case EffectFacade:
		if atk.Status != "" {
			power *= 2
		}
	case EffectHex:
		if def.Status != "" {
			power *= 2
		}
	case EffectVenoshock:
		if def.Status == "psn" || def.Status == "tox" {
			power *= 2
		}
	case EffectAcrobatics:
		if atk.Item == "" {
			power *= 2
		}
	case EffectEruption:
		if hp, maxHP := atk.CurrentHP(); maxHP > 0 {
			power = max(1, 150*hp/maxHP)
		} else {
			power = 150
		}
	case EffectFlail:
		power = flailPower(atk)
	}

	mod := ModifierOne
	if e.MoveEffect(ctx.Move) == EffectKnockOff && def.Item != "" {
		mod = MulModifier(mod, UQ(1.5))
	}
	if m, ok := e.moveData(ctx.Move); ok {
		if ctx.AbilityAtk == "normalize" || (m.Type == "Normal" && ateAbilities[ctx.AbilityAtk] == ctx.MoveType && ctx.MoveType != "") {
			mod = MulModifier(mod, UQ(1.2))
		}
	}
	if ctx.AbilityAtk == "technician" && power <= 60 {
		mod = MulModifier(mod, UQ(1.5))
	}
	if ctx.HoldEffectAtk.Kind == HoldTypePower && ctx.HoldEffectAtk.Type == ctx.MoveType {
		mod = MulModifier(mod, UQ(1.2))
	}
	return max(1, ApplyModifier(power, mod))
}

func flailPower(p *game.Pokemon) int {
	hp, maxHP := p.CurrentHP()
	if maxHP <= 0 {
		return 20
	}
	ratio := 48 * hp / maxHP
	switch {
	case ratio <= 1:
		return 200
	case ratio <= 4:
		return 150
	case ratio <= 9:
		return 100
	case ratio <= 16:
		return 80
	case ratio <= 32:
		return 40
	}
	return 20
}

func (e *Engine) attackStat(ctx *DamageContext, physical bool) int {
	atk := e.state.Battler(ctx.Attacker)
	stat, key := atk.Stats.SpA, "spa"
	if physical {
		stat, key = atk.Stats.Atk, "atk"
	}
	stage := atk.StatStage(key)
	if ctx.IsCrit && stage < game.DefaultStatStage {
		stage = game.DefaultStatStage
	}
	if e.defAbility(ctx) == "unaware" {
		stage = game.DefaultStatStage
	}
	value := applyStage(max(1, stat), stage)

	mod := ModifierOne
	switch ctx.AbilityAtk {
	case "hugepower", "purepower":
		if physical {
			mod = MulModifier(mod, UQ(2))
		}
	case "hustle":
		if physical {
			mod = MulModifier(mod, UQ(1.5))
		}
	case "guts":
		if physical && atk.Status != "" {
			mod = MulModifier(mod, UQ(1.5))
		}
	case "solarpower":
		if !physical && ctx.Weather == game.WeatherSun {
			mod = MulModifier(mod, UQ(1.5))
		}
	}
	switch ctx.HoldEffectAtk.Kind {
	case HoldChoiceBand:
		if physical {
			mod = MulModifier(mod, UQ(1.5))
		}
	case HoldChoiceSpecs:
		if !physical {
			mod = MulModifier(mod, UQ(1.5))
		}
	}
	return max(1, ApplyModifier(value, mod))
}

func (e *Engine) defenseStat(ctx *DamageContext, physical bool) int {
	def := e.state.Battler(ctx.Defender)
	stat, key := def.Stats.SpD, "spd"
	if physical {
		stat, key = def.Stats.Def, "def"
	}
	stage := def.StatStage(key)
	if ctx.IsCrit && stage > game.DefaultStatStage {
		stage = game.DefaultStatStage
	}
	if ctx.AbilityAtk == "unaware" {
		stage = game.DefaultStatStage
	}
	value := applyStage(max(1, stat), stage)

	mod := ModifierOne
	if !physical && ctx.Weather == game.WeatherSand && e.hasType(ctx.Defender, "Rock") {
		mod = MulModifier(mod, UQ(1.5))
	}
	if physical && ctx.Weather == game.WeatherSnow && e.hasType(ctx.Defender, "Ice") {
		mod = MulModifier(mod, UQ(1.5))
	}
	if !physical && ctx.HoldEffectDef.Kind == HoldAssaultVest {
		mod = MulModifier(mod, UQ(1.5))
	}
	if physical && e.defAbility(ctx) == "furcoat" {
		mod = MulModifier(mod, UQ(2))
	}
	return max(1, ApplyModifier(value, mod))
}

func (e *Engine) weatherModifier(ctx *DamageContext) Modifier {
	switch ctx.Weather {
	case game.WeatherSun:
		switch ctx.MoveType {
		case "Fire":
			return UQ(1.5)
		case "Water":
			return UQ(0.5)
		}
	case game.WeatherRain:
		switch ctx.MoveType {
		case "Water":
			return UQ(1.5)
		case "Fire":
			return UQ(0.5)
		}
	}
	return ModifierOne
}

func (e *Engine) stabModifier(ctx *DamageContext) Modifier {
	if ctx.MoveType == "" || !e.hasType(ctx.Attacker, ctx.MoveType) {
		return ModifierOne
	}
	if ctx.AbilityAtk == "adaptability" {
		return UQ(2)
	}
	return UQ(1.5)
}

func (e *Engine) otherModifier(ctx *DamageContext, physical bool) Modifier {
	def := e.state.Battler(ctx.Defender)
	mod := ModifierOne

	if !ctx.IsCrit && ctx.AbilityAtk != "infiltrator" {
		timers := e.state.Sides[ctx.Defender.Side()]
		screened := timers.AuroraVeil > 0 ||
			(physical && timers.Reflect > 0) ||
			(!physical && timers.LightScreen > 0)
		if screened {
			if e.state.Type&game.BattleTypeDoubles != 0 {
				mod = MulModifier(mod, Modifier(2732))
			} else {
				mod = MulModifier(mod, UQ(0.5))
			}
		}
	}

	defAbility := e.defAbility(ctx)
	if hp, maxHP := def.CurrentHP(); hp == maxHP && maxHP > 0 &&
		(defAbility == "multiscale" || ctx.AbilityDef == "shadowshield") {
		mod = MulModifier(mod, UQ(0.5))
	}
	superEffective := ctx.TypeEffectiveness > ModifierOne
	if superEffective && (defAbility == "filter" || defAbility == "solidrock" || ctx.AbilityDef == "prismarmor") {
		mod = MulModifier(mod, UQ(0.75))
	}
	if ctx.AbilityAtk == "tintedlens" && ctx.TypeEffectiveness < ModifierOne {
		mod = MulModifier(mod, UQ(2))
	}
	if ctx.AbilityAtk == "sniper" && ctx.IsCrit {
		mod = MulModifier(mod, UQ(1.5))
	}
	if superEffective && ctx.HoldEffectAtk.Kind == HoldExpertBelt {
		mod = MulModifier(mod, UQ(1.2))
	}
	if ctx.HoldEffectAtk.Kind == HoldLifeOrb {
		mod = MulModifier(mod, UQ(1.3))
	}
	return mod
}

// ApplyPostRollModifiers applies the effects evaluated after the damage roll:
// type-resist berries halve the hit (quarter with Ripen).
func (e *Engine) ApplyPostRollModifiers(ctx *DamageContext, damage int) int {
	berry := ctx.HoldEffectDef
	if berry.Kind != HoldResistBerry || berry.Type != ctx.MoveType || ctx.AbilityAtk == "unnerve" {
		return damage
	}
	if ctx.TypeEffectiveness <= ModifierOne && berry.Type != "Normal" {
		return damage
	}
	if ctx.AbilityDef == "ripen" {
		return ApplyModifier(damage, UQ(0.25))
	}
	return ApplyModifier(damage, UQ(0.5))
}
