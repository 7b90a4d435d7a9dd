package encounter

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedTable struct {
	Time string    `yaml:"time"`
	Area string    `yaml:"area"`
	Rate int       `yaml:"rate"`
	Mons []WildMon `yaml:"mons"`
}

type seedHeader struct {
	Map    string      `yaml:"map"`
	Tables []seedTable `yaml:"tables"`
}

// LoadSeed reads encounter headers from a YAML list of maps.
func LoadSeed(path string) ([]*Header, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seeds []seedHeader
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}

	headers := make([]*Header, 0, len(seeds))
	for _, sh := range seeds {
		h := &Header{Map: sh.Map}
		for _, st := range sh.Tables {
			tod, err := ParseTimeOfDay(st.Time)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sh.Map, err)
			}
			area := Area(st.Area)
			if !area.Valid() {
				return nil, fmt.Errorf("%s: unknown area %q", sh.Map, st.Area)
			}
			h.Tables = append(h.Tables, Table{Time: tod, Area: area, Rate: st.Rate, Mons: st.Mons})
		}
		headers = append(headers, h)
	}
	return headers, nil
}

// Import saves every header of a seed file.
func (s *Store) Import(ctx context.Context, path string) (int, error) {
	headers, err := LoadSeed(path)
	if err != nil {
		return 0, err
	}
	for _, h := range headers {
		if err := s.SaveHeader(ctx, h); err != nil {
			return 0, fmt.Errorf("save %s: %w", h.Map, err)
		}
	}
	return len(headers), nil
}
