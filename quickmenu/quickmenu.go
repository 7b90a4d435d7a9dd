// Package quickmenu holds the overworld quick toggles: infinite repel and the
// time-of-day override.
package quickmenu

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"showdown-battleinfo/encounter"
)

// TimeOverrideNone clears the override when passed to SetTimeOverride.
const TimeOverrideNone = 0xFFFF

type Sound string

const (
	SoundRepel Sound = "SE_REPEL"
	SoundPCOff Sound = "SE_PC_OFF"
)

// SaveState is the slice of save data the quick menu touches. The override
// variable holds 0 when unset, otherwise the time of day plus one.
type SaveState struct {
	mu           sync.Mutex
	noEncounter  bool
	timeOverride uint16
	log          *zap.Logger
}

func NewSaveState(log *zap.Logger) *SaveState {
	return &SaveState{log: log}
}

// ToggleInfiniteRepel flips the no-encounter flag and returns its new value
// with the sound cue for it.
func (s *SaveState) ToggleInfiniteRepel() (bool, Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noEncounter = !s.noEncounter
	s.log.Info("infinite repel toggled", zap.Bool("enabled", s.noEncounter))
	if s.noEncounter {
		return true, SoundRepel
	}
	return false, SoundPCOff
}

func (s *SaveState) InfiniteRepel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noEncounter
}

func (s *SaveState) SetTimeOverride(value uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == TimeOverrideNone {
		s.timeOverride = 0
	} else {
		s.timeOverride = value + 1
	}
	s.log.Info("time override set", zap.Uint16("var", s.timeOverride))
}

// TimeOverride returns the raw override variable.
func (s *SaveState) TimeOverride() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeOverride
}

// TimeOfDay returns the overridden time of day, or the clock's when no
// valid override is set.
func (s *SaveState) TimeOfDay(now time.Time) encounter.TimeOfDay {
	s.mu.Lock()
	v := s.timeOverride
	s.mu.Unlock()
	if v != 0 {
		if t := encounter.TimeOfDay(v - 1); t.Valid() {
			return t
		}
	}
	return encounter.TimeOfDayAt(now)
}
