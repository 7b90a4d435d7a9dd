package battleinfo

import (
	"context"
	"strings"
	"testing"

	"showdown-battleinfo/data"
	"showdown-battleinfo/engine"
	"showdown-battleinfo/game"
	"showdown-battleinfo/preview"
)

var stats = game.Stats{HP: 200, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100}

func mon(name string, moves ...string) *game.Pokemon {
	p := &game.Pokemon{Name: name, Level: 50, HP: 200, MaxHP: 200, Type: []string{"Water"}, Stats: stats}
	for _, m := range moves {
		p.Moves = append(p.Moves, game.Move{Name: m, PP: 10, MaxPP: 16})
	}
	return p
}

func estimator(s *game.BattleState) *preview.Estimator {
	dex := data.NewDex()
	dex.AddMove(data.MoveData{Name: "Tackle", Type: "Normal", Power: 40, Category: engine.CategoryPhysical})
	dex.AddMove(data.MoveData{Name: "Growl", Type: "Normal", Category: engine.CategoryStatus})
	return preview.New(engine.New(dex, s))
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name string
		t    game.BattleType
		want bool
	}{
		{"trainer", game.BattleTypeTrainer, true},
		{"trainer doubles", game.BattleTypeTrainer | game.BattleTypeDoubles, true},
		{"frontier", game.BattleTypeFrontier, true},
		{"wild", 0, false},
		{"link trainer", game.BattleTypeTrainer | game.BattleTypeLink, false},
		{"recorded", game.BattleTypeTrainer | game.BattleTypeRecorded, false},
		{"safari", game.BattleTypeSafari, false},
	}
	for _, tt := range tests {
		if got := Available(tt.t); got != tt.want {
			t.Errorf("%s: Available = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMenuPagesCycle(t *testing.T) {
	ctx := context.Background()
	s := game.NewBattleState()
	s.Battlers[0] = mon("Swampert")
	s.Battlers[1] = mon("Gyarados")
	m := NewMenu(s, 0)

	want := []string{PageMon, PageAIDamage, PageField, PageMon}
	for _, page := range want {
		if err := m.Next(ctx); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if m.Page() != page {
			t.Fatalf("page = %s, want %s", m.Page(), page)
		}
	}
	if err := m.Exit(ctx); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if !m.Closed() {
		t.Fatal("menu should be closed")
	}
	if err := m.Next(ctx); err == nil {
		t.Error("Next after Exit should fail")
	}
}

func TestSelectAdjacent(t *testing.T) {
	s := game.NewBattleState()
	s.Type |= game.BattleTypeDoubles
	s.Battlers[0] = mon("a")
	s.Battlers[1] = mon("b")
	s.Battlers[2] = mon("c")
	s.Battlers[3] = mon("d")
	s.Battlers[1].Fainted = true

	m := NewMenu(s, 0)
	if m.SelectAdjacent(true) {
		t.Fatal("selection moved outside the Mon page")
	}
	if err := m.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !m.SelectAdjacent(true) || m.Selected() != 2 {
		t.Errorf("forward from 0 = %d, want 2 (skipping fainted 1)", m.Selected())
	}
	if !m.SelectAdjacent(true) || m.Selected() != 3 {
		t.Errorf("forward from 2 = %d, want 3", m.Selected())
	}
	if !m.SelectAdjacent(true) || m.Selected() != 0 {
		t.Errorf("forward from 3 = %d, want 0", m.Selected())
	}
	if !m.SelectAdjacent(false) || m.Selected() != 3 {
		t.Errorf("back from 0 = %d, want 3", m.Selected())
	}
}

func TestSelectAdjacentAlone(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("a")
	m := NewMenu(s, 0)
	_ = m.Next(context.Background())
	if m.SelectAdjacent(true) {
		t.Error("only one living battler: selection should not change")
	}
}

func TestEnterMonSkipsFaintedSelection(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("a")
	s.Battlers[1] = mon("b")
	s.Battlers[0].HP = 0
	m := NewMenu(s, 0)
	_ = m.Next(context.Background())
	if m.Selected() != 1 {
		t.Errorf("selected = %d, want 1", m.Selected())
	}
}

func TestStatStageText(t *testing.T) {
	tests := map[int]string{6: "-", 7: "+1", 12: "+6", 5: "-1", 0: "-6"}
	for stage, want := range tests {
		if got := StatStageText(stage); got != want {
			t.Errorf("StatStageText(%d) = %q, want %q", stage, got, want)
		}
	}
}

func TestBuildField(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("a")
	s.Battlers[1] = mon("b")
	s.Players["p2"] = &game.Player{ID: "p2", AI: true}
	s.Sides[game.SideOpponent].Reflect = 3
	s.Field.TrickRoom = 2

	v := BuildField(s)
	if v.FoeLabel != "AI" {
		t.Errorf("FoeLabel = %s, want AI", v.FoeLabel)
	}
	if v.Timers[1].Name != "Reflect" || v.Timers[1].Foe != 3 || v.Timers[1].Player != 0 {
		t.Errorf("reflect row = %+v", v.Timers[1])
	}
	if v.Terrain != "-" || v.TerrainTimer != 0 {
		t.Errorf("terrain = %s %d", v.Terrain, v.TerrainTimer)
	}

	s.Terrain = game.TerrainPsychic
	s.Field.Terrain = 4
	s.Players["p2"].AI = false
	v = BuildField(s)
	if v.Terrain != "Psychic" || v.TerrainTimer != 4 {
		t.Errorf("terrain = %s %d", v.Terrain, v.TerrainTimer)
	}
	if v.FoeLabel != "Foe" {
		t.Errorf("FoeLabel = %s, want Foe", v.FoeLabel)
	}
}

func TestBuildMon(t *testing.T) {
	s := game.NewBattleState()
	p := mon("Swampert", "Tackle", "Growl")
	p.Ability = "Torrent"
	p.Boosts = map[string]int{"atk": 2, "spe": -1}
	s.Battlers[0] = p

	v, ok := BuildMon(s, 0)
	if !ok {
		t.Fatal("BuildMon failed")
	}
	if v.Item != "No data" || v.Ability != "Torrent" {
		t.Errorf("ability/item = %s/%s", v.Ability, v.Item)
	}
	if v.Moves[0].Name != "Tackle" || v.Moves[0].PP != 10 || v.Moves[0].MaxPP != 16 {
		t.Errorf("move 0 = %+v", v.Moves[0])
	}
	if !v.Moves[2].Empty || !v.Moves[3].Empty {
		t.Error("unused slots should be empty")
	}
	if v.Stages[0].Text != "+2" || v.Stages[4].Text != "-1" || v.Stages[1].Text != "-" {
		t.Errorf("stages = %+v", v.Stages)
	}
	if _, ok := BuildMon(s, 3); ok {
		t.Error("empty slot should not build")
	}
}

func TestBuildDamageSingles(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("Player", "Tackle")
	s.Battlers[1] = mon("Foe", "Tackle", "Growl")

	v := BuildDamage(s, estimator(s), preview.AIRollPercentage)
	if v.Empty || v.Doubles {
		t.Fatalf("view = %+v", v)
	}
	if len(v.Rows) != 1 || len(v.Rows[0].Cells) != game.MaxMonMoves {
		t.Fatalf("rows = %+v", v.Rows)
	}
	cells := v.Rows[0].Cells
	// 19 at max roll, 19 * 92 / 100 = 17.
	if cells[0].Damage != 17 {
		t.Errorf("tackle = %d, want 17", cells[0].Damage)
	}
	if !cells[1].Dash || !cells[2].Dash {
		t.Errorf("growl and empty slot should be dashes: %+v", cells)
	}
}

func TestBuildDamageDoubles(t *testing.T) {
	s := game.NewBattleState()
	s.Type |= game.BattleTypeDoubles
	s.Battlers[0] = mon("p1a", "Tackle")
	s.Battlers[1] = mon("p2a", "Tackle")
	s.Battlers[2] = mon("p1b", "Tackle")
	s.Battlers[3] = mon("p2b", "Tackle")

	v := BuildDamage(s, estimator(s), preview.AIRollPercentage)
	if !v.Doubles || len(v.Rows) != 4 {
		t.Fatalf("view = %+v", v)
	}
	if v.Rows[1].Attacker != 1 || v.Rows[1].Defender != 2 {
		t.Errorf("row 1 = %d vs %d", v.Rows[1].Attacker, v.Rows[1].Defender)
	}
	if got := Render(pageAt(t, s, PageAIDamage), estimator(s), preview.AIRollPercentage); !strings.Contains(got, "doubles") {
		t.Errorf("render missing doubles grid: %s", got)
	}
}

func TestBuildDamageEmpty(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("alone")
	if v := BuildDamage(s, estimator(s), preview.AIRollPercentage); !v.Empty {
		t.Errorf("view = %+v, want empty", v)
	}
	if got := Render(pageAt(t, s, PageAIDamage), estimator(s), preview.AIRollPercentage); !strings.Contains(got, NoAIDamage) {
		t.Errorf("render = %s", got)
	}
}

func TestBestMove(t *testing.T) {
	s := game.NewBattleState()
	s.Battlers[0] = mon("Player", "Growl", "Tackle")
	s.Battlers[1] = mon("Foe")
	move, dmg, ok := BestMove(s, estimator(s), 0, 1, 100)
	if !ok || move != "Tackle" || dmg != 19 {
		t.Errorf("BestMove = %s %d %v", move, dmg, ok)
	}
}

func pageAt(t *testing.T, s *game.BattleState, page string) *Menu {
	t.Helper()
	m := NewMenu(s, 0)
	for m.Page() != page {
		if err := m.Next(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	return m
}
