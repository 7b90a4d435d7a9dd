package engine

import (
	"showdown-battleinfo/data"
	"showdown-battleinfo/game"
)

var moveEffects = map[string]Effect{
	"naturepower":     EffectNaturePower,
	"magnitude":       EffectMagnitude,
	"present":         EffectPresent,
	"seismictoss":     EffectLevelDamage,
	"nightshade":      EffectLevelDamage,
	"dragonrage":      EffectFixedDamage,
	"sonicboom":       EffectFixedDamage,
	"superfang":       EffectSuperFang,
	"naturesmadness":  EffectSuperFang,
	"ruination":       EffectSuperFang,
	"endeavor":        EffectEndeavor,
	"finalgambit":     EffectFinalGambit,
	"weatherball":     EffectWeatherBall,
	"terrainpulse":    EffectTerrainPulse,
	"revelationdance": EffectRevelationDance,
	"shellsidearm":    EffectShellSideArm,
	"photongeyser":    EffectPhotonGeyser,
	"facade":          EffectFacade,
	"hex":             EffectHex,
	"venoshock":       EffectVenoshock,
	"knockoff":        EffectKnockOff,
	"acrobatics":      EffectAcrobatics,
	"eruption":        EffectEruption,
	"waterspout":      EffectEruption,
	"dragonenergy":    EffectEruption,
	"flail":           EffectFlail,
	"reversal":        EffectFlail,
	"freezedry":       EffectFreezeDry,
}

var fixedDamageValues = map[string]int{
	"dragonrage": 40,
	"sonicboom":  20,
}

const naturePowerDefault = "triattack"

var naturePowerByTerrain = map[string]string{
	game.TerrainElectric: "thunderbolt",
	game.TerrainGrassy:   "energyball",
	game.TerrainMisty:    "moonblast",
	game.TerrainPsychic:  "psychic",
}

var weatherBallTypes = map[string]string{
	game.WeatherSun:  "Fire",
	game.WeatherRain: "Water",
	game.WeatherSand: "Rock",
	game.WeatherHail: "Ice",
	game.WeatherSnow: "Ice",
}

var terrainPulseTypes = map[string]string{
	game.TerrainElectric: "Electric",
	game.TerrainGrassy:   "Grass",
	game.TerrainMisty:    "Fairy",
	game.TerrainPsychic:  "Psychic",
}

var ateAbilities = map[string]string{
	"pixilate":    "Fairy",
	"aerilate":    "Flying",
	"refrigerate": "Ice",
	"galvanize":   "Electric",
}

var moldBreakers = map[string]bool{
	"moldbreaker": true,
	"teravolt":    true,
	"turboblaze":  true,
}

var resistBerries = map[string]string{
	"occaberry":   "Fire",
	"passhoberry": "Water",
	"wacanberry":  "Electric",
	"rindoberry":  "Grass",
	"yacheberry":  "Ice",
	"chopleberry": "Fighting",
	"kebiaberry":  "Poison",
	"shucaberry":  "Ground",
	"cobaberry":   "Flying",
	"payapaberry": "Psychic",
	"tangaberry":  "Bug",
	"chartiberry": "Rock",
	"kasibberry":  "Ghost",
	"habanberry":  "Dragon",
	"colburberry": "Dark",
	"babiriberry": "Steel",
	"roseliberry": "Fairy",
	"chilanberry": "Normal",
}

var typePowerItems = map[string]string{
	"charcoal":     "Fire",
	"mysticwater":  "Water",
	"magnet":       "Electric",
	"miracleseed":  "Grass",
	"nevermeltice": "Ice",
	"blackbelt":    "Fighting",
	"poisonbarb":   "Poison",
	"softsand":     "Ground",
	"sharpbeak":    "Flying",
	"twistedspoon": "Psychic",
	"silverpowder": "Bug",
	"hardstone":    "Rock",
	"spelltag":     "Ghost",
	"dragonfang":   "Dragon",
	"blackglasses": "Dark",
	"metalcoat":    "Steel",
	"silkscarf":    "Normal",
	"fairyfeather": "Fairy",
}

var simpleHoldEffects = map[string]HoldKind{
	"choiceband":  HoldChoiceBand,
	"choicespecs": HoldChoiceSpecs,
	"lifeorb":     HoldLifeOrb,
	"expertbelt":  HoldExpertBelt,
	"assaultvest": HoldAssaultVest,
	"airballoon":  HoldAirBalloon,
}

// HoldEffectOf maps an item name to its damage-relevant effect.
func HoldEffectOf(item string) HoldEffect {
	id := data.ToID(item)
	if kind, ok := simpleHoldEffects[id]; ok {
		return HoldEffect{Kind: kind}
	}
	if t, ok := resistBerries[id]; ok {
		return HoldEffect{Kind: HoldResistBerry, Type: t}
	}
	if t, ok := typePowerItems[id]; ok {
		return HoldEffect{Kind: HoldTypePower, Type: t}
	}
	return HoldEffect{}
}

var stageRatios = [game.MaxStatStage + 1][2]int{
	{2, 8}, {2, 7}, {2, 6}, {2, 5}, {2, 4}, {2, 3},
	{2, 2},
	{3, 2}, {4, 2}, {5, 2}, {6, 2}, {7, 2}, {8, 2},
}

func applyStage(stat, stage int) int {
	r := stageRatios[stage]
	return stat * r[0] / r[1]
}
