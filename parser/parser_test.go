package parser

import (
	"errors"
	"strings"
	"testing"

	"showdown-battleinfo/data"
	"showdown-battleinfo/game"
)

func testDex() *data.Dex {
	dex := data.NewDex()
	dex.AddPokemon(data.PokemonData{Name: "Garchomp", Types: []string{"Dragon", "Ground"},
		BaseStats: data.BaseStats{HP: 108, Atk: 130, Def: 95, SpA: 80, SpD: 85, Spe: 102}})
	dex.AddPokemon(data.PokemonData{Name: "Pikachu", Types: []string{"Electric"},
		BaseStats: data.BaseStats{HP: 35, Atk: 55, Def: 40, SpA: 50, SpD: 50, Spe: 90}})
	dex.AddMove(data.MoveData{Name: "Earthquake", Type: "Ground", Power: 100, Category: "Physical", PP: 10})
	dex.AddMove(data.MoveData{Name: "Thunderbolt", Type: "Electric", Power: 90, Category: "Special", PP: 15})
	dex.AddMove(data.MoveData{Name: "Tackle", Type: "Normal", Power: 40, Category: "Physical", PP: 35})
	return dex
}

func aiOn(side string) func(string) bool {
	return func(id string) bool { return id == side }
}

const singlesLog = `|player|p1|Alice|1|
|player|p2|Bot|2|
|poke|p1|Garchomp, L50, M|
|poke|p2|Pikachu, L50, F|
|switch|p1a: Chompy|Garchomp, L50, M|194/194
|switch|p2a: Pikachu|Pikachu, L50, F|100/100
|turn|1
|move|p1a: Chompy|Earthquake|p2a: Pikachu
|move|p1a: Chompy|Tackle|p2a: Pikachu|[from]move: Metronome
|move|p1a: Chompy|Earthquake|p2a: Pikachu
|-damage|p2a: Pikachu|45/100 par
|-boost|p1a: Chompy|atk|2
|-unboost|p1a: Chompy|atk|1
|-weather|RainDance
|-fieldstart|move: Electric Terrain
|-fieldstart|move: Trick Room|[of] p1a: Chompy
|-sidestart|p2: Bot|Reflect
|-sidestart|p1: Alice|move: Tailwind
|-item|p2a: Pikachu|Light Ball
|upkeep
|turn|2`

func TestParseLogSingles(t *testing.T) {
	state, err := New(testDex(), aiOn("p2")).ParseLog(singlesLog)
	if err != nil {
		t.Fatalf("ParseLog: %v", err)
	}
	if state.Turn != 2 || state.BattlersCount() != 2 {
		t.Fatalf("turn %d, battlers %d", state.Turn, state.BattlersCount())
	}
	if state.Players["p1"].AI || !state.Players["p2"].AI || state.Players["p2"].Name != "Bot" {
		t.Errorf("players = %+v %+v", state.Players["p1"], state.Players["p2"])
	}

	chomp := state.Battler(0)
	if chomp == nil || chomp.Name != "Chompy" || chomp.Species != "Garchomp" || chomp.Level != 50 {
		t.Fatalf("battler 0 = %+v", chomp)
	}
	if chomp.Stats.HP != 194 || chomp.HP != 194 {
		t.Errorf("hp %d stat %d", chomp.HP, chomp.Stats.HP)
	}
	team := state.Players["p1"].Team
	if team["Chompy"] != chomp || team["Garchomp"] != nil {
		t.Errorf("team preview entry not adopted: %v", team)
	}
	if state.Players["p1"].Active != chomp {
		t.Error("p1 active not set")
	}
	if len(chomp.Moves) != 1 {
		t.Fatalf("moves = %+v", chomp.Moves)
	}
	if m := chomp.Moves[0]; m.Name != "Earthquake" || m.MaxPP != 16 || m.PP != 14 {
		t.Errorf("earthquake = %+v", m)
	}
	if chomp.Boosts["atk"] != 1 || chomp.StatStage("atk") != 7 {
		t.Errorf("boosts = %v", chomp.Boosts)
	}

	pika := state.Battler(1)
	if pika.HP != 45 || pika.MaxHP != 100 || pika.Status != "par" || pika.Item != "Light Ball" {
		t.Errorf("pikachu = %+v", pika)
	}
	if hp, max := pika.CurrentHP(); max != pika.Stats.HP || hp != 45*pika.Stats.HP/100 {
		t.Errorf("CurrentHP = %d/%d", hp, max)
	}

	if state.Weather != game.WeatherRain || state.Terrain != game.TerrainElectric {
		t.Errorf("weather %q terrain %q", state.Weather, state.Terrain)
	}
	// One upkeep has passed since every timer started.
	if state.Field.Terrain != 4 || state.Field.TrickRoom != 4 {
		t.Errorf("field = %+v", state.Field)
	}
	if state.Sides[game.SideOpponent].Reflect != 4 || state.Sides[game.SidePlayer].Tailwind != 3 {
		t.Errorf("sides = %+v", state.Sides)
	}
}

func TestProcessLineEndings(t *testing.T) {
	p := New(testDex(), nil)
	state, _ := p.ParseLog(singlesLog)
	for _, line := range []string{
		"|-fieldend|move: Trick Room",
		"|-fieldend|move: Electric Terrain",
		"|-sideend|p2: Bot|Reflect",
		"|-enditem|p2a: Pikachu|Light Ball|[eat]",
		"|-curestatus|p2a: Pikachu|par",
		"|-clearallboost",
		"|-weather|none",
		"|faint|p2a: Pikachu",
	} {
		p.ProcessLine(state, line)
	}
	if state.Field.TrickRoom != 0 || state.Terrain != game.TerrainNone || state.Field.Terrain != 0 {
		t.Errorf("field = %+v terrain %q", state.Field, state.Terrain)
	}
	if len(state.FieldEffects) != 0 {
		t.Errorf("field effects = %v", state.FieldEffects)
	}
	if state.Sides[game.SideOpponent].Reflect != 0 || state.Weather != game.WeatherNone {
		t.Errorf("reflect %d weather %q", state.Sides[game.SideOpponent].Reflect, state.Weather)
	}
	pika := state.Battler(1)
	if pika.Item != "" || pika.Status != "" || state.IsBattlerAlive(1) {
		t.Errorf("pikachu = %+v", pika)
	}
	if len(state.Battler(0).Boosts) != 0 {
		t.Errorf("boosts = %v", state.Battler(0).Boosts)
	}
	if state.Players["p2"].AI {
		t.Error("nil AI func should leave sides human")
	}
}

func TestParseLogDoubles(t *testing.T) {
	log := `|gametype|doubles
|player|p1|Alice|1|
|player|p2|Bot|2|
|switch|p1a: Chompy|Garchomp, L50|100/100
|switch|p1b: Sparky|Pikachu|100/100
|switch|p2a: Pikachu|Pikachu, L40|100/100
|switch|p2b: Garchomp|Garchomp, L40|100/100
|move|p1b: Sparky|Thunderbolt|p2b: Garchomp
|switch|p1a: Sparky2|Pikachu, L50|100/100`
	state, _ := New(testDex(), aiOn("p2")).ParseLog(log)
	if state.Type&game.BattleTypeDoubles == 0 || state.BattlersCount() != 4 {
		t.Fatalf("type = %b", state.Type)
	}
	if b := state.Battler(2); b == nil || b.Name != "Sparky" || b.Level != 100 || len(b.Moves) != 1 {
		t.Errorf("p1b = %+v", b)
	}
	if b := state.Battler(3); b == nil || b.Level != 40 {
		t.Errorf("p2b = %+v", b)
	}
	if b := state.Battler(0); b.Name != "Sparky2" || state.Players["p1"].Active != b {
		t.Errorf("p1a after switch = %+v", b)
	}
	if len(state.Players["p1"].Team) != 3 {
		t.Errorf("team = %v", state.Players["p1"].Team)
	}
}

func TestNormalizeWeather(t *testing.T) {
	tests := map[string]string{
		"RainDance":    game.WeatherRain,
		"SunnyDay":     game.WeatherSun,
		"DesolateLand": game.WeatherSun,
		"Sandstorm":    game.WeatherSand,
		"Hail":         game.WeatherHail,
		"Snow":         game.WeatherSnow,
		"none":         game.WeatherNone,
	}
	for in, want := range tests {
		if got := NormalizeWeather(in); got != want {
			t.Errorf("%s: %q, want %q", in, got, want)
		}
	}
}

func TestBuildState(t *testing.T) {
	p := New(testDex(), nil)
	snap := Snapshot{
		Weather: "rain",
		Terrain: "psychic",
		AISides: []string{"p2"},
		Sides:   map[string]SideSnapshot{"p1": {LightScreen: 3}},
		Mons: []MonSnapshot{
			{Position: "p1a", Species: "Garchomp", Level: 50, Moves: []string{"Earthquake"}},
			{Position: "p2a", Species: "Pikachu", Level: 50, HP: 20, Status: "brn", Item: "Light Ball", Moves: []string{"thunderbolt"}},
		},
	}
	state, err := p.BuildState(snap)
	if err != nil {
		t.Fatalf("BuildState: %v", err)
	}
	if state.Weather != game.WeatherRain || state.Terrain != game.TerrainPsychic || state.Field.Terrain != 5 {
		t.Errorf("weather %q terrain %q/%d", state.Weather, state.Terrain, state.Field.Terrain)
	}
	if state.Sides[game.SidePlayer].LightScreen != 3 || !state.BattlerHasAI(1) || state.BattlerHasAI(0) {
		t.Errorf("sides %+v", state.Sides)
	}
	chomp := state.Battler(0)
	if chomp.HP != 194 || chomp.MaxHP != 194 {
		t.Errorf("garchomp hp %d/%d", chomp.HP, chomp.MaxHP)
	}
	pika := state.Battler(1)
	if pika.HP != 20 || pika.Status != "brn" || pika.Moves[0].Name != "Thunderbolt" || pika.Moves[0].PP != 24 {
		t.Errorf("pikachu = %+v", pika)
	}
}

func TestBuildStateErrors(t *testing.T) {
	p := New(testDex(), nil)
	tests := []struct {
		name string
		snap Snapshot
		is   error
		text string
	}{
		{"typo", Snapshot{Mons: []MonSnapshot{{Position: "p1a", Species: "Garchomp", Moves: []string{"Thunderbolf"}}}}, data.ErrUnknownMove, "Thunderbolt"},
		{"no suggestion", Snapshot{Mons: []MonSnapshot{{Position: "p1a", Species: "Garchomp", Moves: []string{"Hyper Voice"}}}}, data.ErrUnknownMove, "Hyper Voice"},
		{"species", Snapshot{Mons: []MonSnapshot{{Position: "p1a", Species: "Missingno"}}}, data.ErrUnknownSpecies, "Missingno"},
		{"singles b slot", Snapshot{Mons: []MonSnapshot{{Position: "p1b", Species: "Garchomp"}}}, nil, "doubles"},
		{"position", Snapshot{Mons: []MonSnapshot{{Position: "p3a", Species: "Garchomp"}}}, nil, "p3a"},
		{"terrain", Snapshot{Terrain: "lava"}, nil, "lava"},
		{"side", Snapshot{Sides: map[string]SideSnapshot{"p5": {}}}, nil, "p5"},
	}
	for _, tt := range tests {
		_, err := p.BuildState(tt.snap)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.is != nil && !errors.Is(err, tt.is) {
			t.Errorf("%s: %v is not %v", tt.name, err, tt.is)
		}
		if !strings.Contains(err.Error(), tt.text) {
			t.Errorf("%s: %q does not mention %q", tt.name, err, tt.text)
		}
	}
}

func TestBuildStateExplicitStats(t *testing.T) {
	stats := game.Stats{HP: 300, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100}
	state, err := New(testDex(), nil).BuildState(Snapshot{Mons: []MonSnapshot{
		{Position: "p2a", Species: "Missingno", Types: []string{"Bird", "Normal"}, Stats: &stats, Status: "fnt"},
	}})
	if err != nil {
		t.Fatalf("BuildState: %v", err)
	}
	b := state.Battler(1)
	if b.Stats.HP != 300 || !b.Fainted || state.IsBattlerAlive(1) {
		t.Errorf("battler = %+v", b)
	}
}
