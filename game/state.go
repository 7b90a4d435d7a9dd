package game

const (
	MaxBattlers = 4
	MaxMonMoves = 4

	DefaultStatStage = 6
	MinStatStage     = 0
	MaxStatStage     = 12
)

// BattlerID is a slot in the active roster. Even slots belong to the player
// side, odd slots to the opponent: 0 = p1a, 1 = p2a, 2 = p1b, 3 = p2b.
type BattlerID int

const NoBattler BattlerID = MaxBattlers

type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (b BattlerID) Side() Side {
	return Side(b & 1)
}

func (b BattlerID) Valid() bool {
	return b >= 0 && b < MaxBattlers
}

// PositionBattler maps a Showdown position such as "p2a" to its battler slot.
func PositionBattler(pos string) (BattlerID, bool) {
	switch pos {
	case "p1a":
		return 0, true
	case "p2a":
		return 1, true
	case "p1b":
		return 2, true
	case "p2b":
		return 3, true
	}
	return NoBattler, false
}

// Position is the inverse of PositionBattler.
func (b BattlerID) Position() string {
	switch b {
	case 0:
		return "p1a"
	case 1:
		return "p2a"
	case 2:
		return "p1b"
	case 3:
		return "p2b"
	}
	return ""
}

func PlayerSide(id string) (Side, bool) {
	switch id {
	case "p1":
		return SidePlayer, true
	case "p2":
		return SideOpponent, true
	}
	return SidePlayer, false
}

const (
	WeatherNone = ""
	WeatherRain = "rain"
	WeatherSun  = "sun"
	WeatherSand = "sand"
	WeatherHail = "hail"
	WeatherSnow = "snow"
)

const (
	TerrainNone     = ""
	TerrainElectric = "electric"
	TerrainGrassy   = "grassy"
	TerrainMisty    = "misty"
	TerrainPsychic  = "psychic"
)

// BattleType mirrors the battle type flags the info menu checks before it
// offers itself.
type BattleType uint32

const (
	BattleTypeDoubles BattleType = 1 << iota
	BattleTypeLink
	BattleTypeTrainer
	BattleTypeSafari
	BattleTypeWallyTutorial
	BattleTypeRecorded
	BattleTypeRecordedLink
	BattleTypeTrainerHill
	BattleTypeFrontier
	BattleTypeEReaderTrainer
	BattleTypeSecretBase
)

type Move struct {
	Name     string
	Type     string
	Power    int
	Category string
	PP       int
	MaxPP    int
}

type Stats struct {
	HP  int
	Atk int
	Def int
	SpA int
	SpD int
	Spe int
}

type Pokemon struct {
	Name    string
	Species string
	Level   int
	HP      int
	MaxHP   int
	Fainted bool
	Moves   []Move
	Status  string
	Ability string
	Item    string
	Boosts  map[string]int
	Type    []string
	Stats   Stats
}

// StatStage returns the stage (0..12, 6 neutral) for a Showdown boost key
// such as "atk" or "spe".
func (p *Pokemon) StatStage(stat string) int {
	stage := DefaultStatStage + p.Boosts[stat]
	if stage < MinStatStage {
		return MinStatStage
	}
	if stage > MaxStatStage {
		return MaxStatStage
	}
	return stage
}

func (p *Pokemon) Alive() bool {
	return p != nil && !p.Fainted && p.HP > 0
}

// CurrentHP returns HP on the computed stat scale. Opponent HP arrives as a
// percentage from the protocol and is rescaled here.
func (p *Pokemon) CurrentHP() (int, int) {
	if p.Stats.HP > 0 && p.MaxHP > 0 && p.MaxHP != p.Stats.HP {
		return p.HP * p.Stats.HP / p.MaxHP, p.Stats.HP
	}
	return p.HP, p.MaxHP
}

// CalcStats derives battle stats from base stats the way random battles build
// sets: 31 IVs, 84 EVs, neutral nature.
func CalcStats(base Stats, level int) Stats {
	stat := func(b int) int {
		return (2*b+31+21)*level/100 + 5
	}
	s := Stats{
		Atk: stat(base.Atk),
		Def: stat(base.Def),
		SpA: stat(base.SpA),
		SpD: stat(base.SpD),
		Spe: stat(base.Spe),
	}
	if base.HP == 1 {
		s.HP = 1
	} else {
		s.HP = (2*base.HP+31+21)*level/100 + level + 10
	}
	return s
}

type Player struct {
	ID     string
	Name   string
	AI     bool
	Team   map[string]*Pokemon
	Active *Pokemon
}

type SideTimers struct {
	Tailwind    int
	Reflect     int
	LightScreen int
	AuroraVeil  int
}

type FieldTimers struct {
	TrickRoom int
	Terrain   int
}

type BattleState struct {
	Players      map[string]*Player
	Turn         int
	Weather      string
	Terrain      string
	FieldEffects map[string]bool
	Type         BattleType
	Battlers     [MaxBattlers]*Pokemon
	Sides        [2]SideTimers
	Field        FieldTimers
}

func NewBattleState() *BattleState {
	return &BattleState{
		Players:      make(map[string]*Player),
		Turn:         0,
		Weather:      WeatherNone,
		FieldEffects: make(map[string]bool),
		Type:         BattleTypeTrainer,
	}
}

func (s *BattleState) BattlersCount() int {
	if s.Type&BattleTypeDoubles != 0 {
		return 4
	}
	return 2
}

func (s *BattleState) Battler(id BattlerID) *Pokemon {
	if !id.Valid() {
		return nil
	}
	return s.Battlers[id]
}

func (s *BattleState) IsBattlerAlive(id BattlerID) bool {
	return s.Battler(id).Alive()
}

func (s *BattleState) LivingBattlersOnSide(side Side) []BattlerID {
	var out []BattlerID
	for b := BattlerID(0); int(b) < s.BattlersCount(); b++ {
		if b.Side() == side && s.IsBattlerAlive(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *BattleState) FirstLivingBattlerOnSide(side Side) BattlerID {
	if living := s.LivingBattlersOnSide(side); len(living) > 0 {
		return living[0]
	}
	return NoBattler
}

func (s *BattleState) PlayerFor(side Side) *Player {
	if side == SidePlayer {
		return s.Players["p1"]
	}
	return s.Players["p2"]
}

func (s *BattleState) BattlerHasAI(id BattlerID) bool {
	p := s.PlayerFor(id.Side())
	return p != nil && p.AI
}

// Tick counts every timer down by one turn.
func (s *BattleState) Tick() {
	dec := func(v *int) {
		if *v > 0 {
			*v--
		}
	}
	for i := range s.Sides {
		dec(&s.Sides[i].Tailwind)
		dec(&s.Sides[i].Reflect)
		dec(&s.Sides[i].LightScreen)
		dec(&s.Sides[i].AuroraVeil)
	}
	dec(&s.Field.TrickRoom)
	dec(&s.Field.Terrain)
}
