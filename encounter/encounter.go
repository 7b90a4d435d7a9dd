// Package encounter holds the wild encounter tables for each map and the
// viewer that pages through them.
package encounter

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoHeader = errors.New("no encounter header for map")

type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Day
	Evening
	Night
	timeCount
)

var timeNames = [timeCount]string{"morning", "day", "evening", "night"}

func (t TimeOfDay) String() string {
	if t < 0 || t >= timeCount {
		return fmt.Sprintf("TimeOfDay(%d)", int(t))
	}
	return timeNames[t]
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < timeCount
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for i, name := range timeNames {
		if name == s {
			return TimeOfDay(i), nil
		}
	}
	return Day, fmt.Errorf("unknown time of day %q", s)
}

// TimeOfDayAt buckets a clock time: morning 4-9, day 10-19, evening 20,
// night 21-3.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 4 && h < 10:
		return Morning
	case h >= 10 && h < 20:
		return Day
	case h == 20:
		return Evening
	}
	return Night
}

type Area string

const (
	AreaLand      Area = "land"
	AreaWater     Area = "water"
	AreaRockSmash Area = "rock_smash"
	AreaFishing   Area = "fishing"
)

func (a Area) Valid() bool {
	switch a {
	case AreaLand, AreaWater, AreaRockSmash, AreaFishing:
		return true
	}
	return false
}

type WildMon struct {
	Species  string `json:"species" yaml:"species"`
	MinLevel int    `json:"min_level" yaml:"min_level"`
	MaxLevel int    `json:"max_level" yaml:"max_level"`
}

// Table is the wild list for one area at one time of day. A zero Rate means
// the area never produces encounters.
type Table struct {
	Time TimeOfDay
	Area Area
	Rate int
	Mons []WildMon
}

type Header struct {
	Map    string
	Tables []Table
}

func (h *Header) Lookup(area Area, t TimeOfDay) *Table {
	if h == nil {
		return nil
	}
	for i := range h.Tables {
		if h.Tables[i].Area == area && h.Tables[i].Time == t {
			return &h.Tables[i]
		}
	}
	return nil
}

// TimeFor returns the time of day whose table serves area at t. Maps without
// a table for t fall back to Day.
func (h *Header) TimeFor(area Area, t TimeOfDay) TimeOfDay {
	if h.Lookup(area, t) != nil {
		return t
	}
	return Day
}
