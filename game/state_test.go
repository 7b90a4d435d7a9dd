package game

import "testing"

func TestPositionBattler(t *testing.T) {
	tests := []struct {
		pos  string
		want BattlerID
		side Side
	}{
		{"p1a", 0, SidePlayer},
		{"p2a", 1, SideOpponent},
		{"p1b", 2, SidePlayer},
		{"p2b", 3, SideOpponent},
	}
	for _, tt := range tests {
		got, ok := PositionBattler(tt.pos)
		if !ok || got != tt.want {
			t.Errorf("PositionBattler(%q) = %d, %v; want %d", tt.pos, got, ok, tt.want)
		}
		if got.Position() != tt.pos {
			t.Errorf("battler %d position = %q", got, got.Position())
		}
		if got.Side() != tt.side {
			t.Errorf("battler %d side = %d, want %d", got, got.Side(), tt.side)
		}
	}
	if _, ok := PositionBattler("p3a"); ok {
		t.Error("p3a should not map to a battler")
	}
	if NoBattler.Position() != "" {
		t.Error("NoBattler has no position")
	}
}

func TestStatStageClamps(t *testing.T) {
	p := &Pokemon{Boosts: map[string]int{"atk": 2, "def": -8, "spe": 9}}
	if got := p.StatStage("atk"); got != 8 {
		t.Errorf("atk stage = %d, want 8", got)
	}
	if got := p.StatStage("def"); got != MinStatStage {
		t.Errorf("def stage = %d, want %d", got, MinStatStage)
	}
	if got := p.StatStage("spe"); got != MaxStatStage {
		t.Errorf("spe stage = %d, want %d", got, MaxStatStage)
	}
	if got := p.StatStage("spa"); got != DefaultStatStage {
		t.Errorf("spa stage = %d, want %d", got, DefaultStatStage)
	}
}

func TestCalcStats(t *testing.T) {
	// Garchomp at level 100: 108/130/95/80/85/102.
	s := CalcStats(Stats{HP: 108, Atk: 130, Def: 95, SpA: 80, SpD: 85, Spe: 102}, 100)
	want := Stats{HP: 378, Atk: 317, Def: 247, SpA: 217, SpD: 227, Spe: 261}
	if s != want {
		t.Errorf("CalcStats = %+v, want %+v", s, want)
	}
	if got := CalcStats(Stats{HP: 1}, 50).HP; got != 1 {
		t.Errorf("Shedinja HP = %d, want 1", got)
	}
}

func TestCurrentHPRescalesPercentages(t *testing.T) {
	p := &Pokemon{HP: 50, MaxHP: 100, Stats: Stats{HP: 300}}
	cur, max := p.CurrentHP()
	if cur != 150 || max != 300 {
		t.Errorf("CurrentHP = %d/%d, want 150/300", cur, max)
	}
	own := &Pokemon{HP: 120, MaxHP: 300, Stats: Stats{HP: 300}}
	cur, max = own.CurrentHP()
	if cur != 120 || max != 300 {
		t.Errorf("CurrentHP = %d/%d, want 120/300", cur, max)
	}
}

func TestLivingBattlersOnSide(t *testing.T) {
	s := NewBattleState()
	s.Type |= BattleTypeDoubles
	s.Battlers[0] = &Pokemon{Name: "A", HP: 10}
	s.Battlers[1] = &Pokemon{Name: "B", HP: 10}
	s.Battlers[2] = &Pokemon{Name: "C", HP: 0, Fainted: true}
	s.Battlers[3] = &Pokemon{Name: "D", HP: 5}

	if got := s.LivingBattlersOnSide(SidePlayer); len(got) != 1 || got[0] != 0 {
		t.Errorf("player living = %v, want [0]", got)
	}
	if got := s.LivingBattlersOnSide(SideOpponent); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("opponent living = %v, want [1 3]", got)
	}
	s.Battlers[1].Fainted = true
	if got := s.FirstLivingBattlerOnSide(SideOpponent); got != 3 {
		t.Errorf("first living opponent = %d, want 3", got)
	}
}

func TestTick(t *testing.T) {
	s := NewBattleState()
	s.Sides[SidePlayer].Reflect = 2
	s.Sides[SideOpponent].Tailwind = 1
	s.Field.TrickRoom = 3
	s.Tick()
	s.Tick()
	if s.Sides[SidePlayer].Reflect != 0 || s.Sides[SideOpponent].Tailwind != 0 {
		t.Errorf("side timers not drained: %+v", s.Sides)
	}
	if s.Field.TrickRoom != 1 {
		t.Errorf("trick room = %d, want 1", s.Field.TrickRoom)
	}
}
