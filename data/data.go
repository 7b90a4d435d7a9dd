package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownMove = errors.New("unknown move")
var ErrUnknownSpecies = errors.New("unknown species")

type BaseStats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

type PokemonData struct {
	Name      string
	Types     []string
	BaseStats BaseStats
}

type MoveData struct {
	Name     string
	Type     string
	Power    int
	Category string
	PP       int
	Priority int
}

type RawPokemonData struct {
	Name      string    `json:"name"`
	Types     []string  `json:"types"`
	BaseStats BaseStats `json:"baseStats"`
}

type RawMoveData struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"basePower"`
	Category string `json:"category"`
	PP       int    `json:"pp"`
	Priority int    `json:"priority"`
}

// Dex holds the species and move tables loaded from the Showdown data files.
// Lookups are keyed by ToID so "Thunder Punch", "thunderpunch" and
// "ThunderPunch" all resolve to the same entry.
type Dex struct {
	pokemon map[string]PokemonData
	moves   map[string]MoveData
}

func NewDex() *Dex {
	return &Dex{
		pokemon: make(map[string]PokemonData),
		moves:   make(map[string]MoveData),
	}
}

var std = NewDex()

// Default returns the process-wide dex filled by LoadPokemonData and LoadMoveData.
func Default() *Dex {
	return std
}

// ToID lowercases name and drops everything that is not a letter or digit.
func ToID(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (d *Dex) LoadPokemonData(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var rawData map[string]RawPokemonData
	if err := json.NewDecoder(file).Decode(&rawData); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for _, p := range rawData {
		d.AddPokemon(PokemonData{
			Name:      p.Name,
			Types:     p.Types,
			BaseStats: p.BaseStats,
		})
	}
	return nil
}

func (d *Dex) LoadMoveData(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var rawData map[string]RawMoveData
	if err := json.NewDecoder(file).Decode(&rawData); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for _, m := range rawData {
		d.AddMove(MoveData{
			Name:     m.Name,
			Type:     m.Type,
			Power:    m.Power,
			Category: m.Category,
			PP:       m.PP,
			Priority: m.Priority,
		})
	}
	return nil
}

func (d *Dex) AddPokemon(p PokemonData) {
	d.pokemon[ToID(p.Name)] = p
}

func (d *Dex) AddMove(m MoveData) {
	d.moves[ToID(m.Name)] = m
}

func (d *Dex) Pokemon(name string) (PokemonData, bool) {
	p, ok := d.pokemon[ToID(name)]
	return p, ok
}

func (d *Dex) Move(name string) (MoveData, bool) {
	m, ok := d.moves[ToID(name)]
	return m, ok
}

func (d *Dex) PokemonTypes(name string) []string {
	if p, ok := d.Pokemon(name); ok {
		return p.Types
	}
	return nil
}

func (d *Dex) MoveTypeAndPower(name string) (string, int, error) {
	if m, ok := d.Move(name); ok {
		return m.Type, m.Power, nil
	}
	return "", 0, fmt.Errorf("%w: %s", ErrUnknownMove, name)
}

// MoveName returns the display name of a move, title-casing the id when the
// move is not in the dex.
func (d *Dex) MoveName(id string) string {
	if m, ok := d.Move(id); ok {
		return m.Name
	}
	return cases.Title(language.English).String(id)
}

func (d *Dex) AllMoves() []MoveData {
	moves := make([]MoveData, 0, len(d.moves))
	for _, move := range d.moves {
		moves = append(moves, move)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].Name < moves[j].Name })
	return moves
}

// SuggestMove returns the closest known move id to name, if one is within a
// few edits.
func (d *Dex) SuggestMove(name string) (string, bool) {
	id := ToID(name)
	if _, ok := d.moves[id]; ok {
		return id, true
	}
	best := ""
	bestDist := suggestLimit(len(id)) + 1
	for cand := range d.moves {
		dist := levenshtein.ComputeDistance(id, cand)
		if dist < bestDist || (dist == bestDist && cand < best) {
			best = cand
			bestDist = dist
		}
	}
	return best, best != ""
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
