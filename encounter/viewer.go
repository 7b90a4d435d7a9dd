package encounter

import (
	"fmt"
	"strings"
)

const MaxSpecies = 12

type Page int

const (
	PageLand Page = iota
	PageWater
	PageFishing
	pageCount
)

func (p Page) String() string {
	switch p {
	case PageWater:
		return "Water"
	case PageFishing:
		return "Fishing"
	}
	return "Land"
}

func (p Page) Valid() bool {
	return p >= 0 && p < pageCount
}

func ParsePage(s string) (Page, error) {
	for p := PageLand; p < pageCount; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return PageLand, fmt.Errorf("unknown page %q", s)
}

// Viewer lists the unique species each page can produce on one map. Water
// merges surfing and Rock Smash.
type Viewer struct {
	Map     string
	Current Page
	species [pageCount][]string
}

func NewViewer(h *Header, t TimeOfDay) *Viewer {
	v := &Viewer{}
	if h != nil {
		v.Map = h.Map
		tod := h.TimeFor(AreaLand, t)
		v.add(PageLand, h.Lookup(AreaLand, tod))

		tod = h.TimeFor(AreaWater, t)
		v.add(PageWater, h.Lookup(AreaWater, tod))
		v.add(PageWater, h.Lookup(AreaRockSmash, tod))

		tod = h.TimeFor(AreaFishing, t)
		v.add(PageFishing, h.Lookup(AreaFishing, tod))
	}
	v.Current = v.FirstAvailablePage()
	return v
}

func (v *Viewer) add(p Page, t *Table) {
	if t == nil || t.Rate == 0 {
		return
	}
	for _, m := range t.Mons {
		v.addUnique(p, m.Species)
	}
}

func (v *Viewer) addUnique(p Page, species string) {
	if species == "" || len(v.species[p]) >= MaxSpecies {
		return
	}
	for _, s := range v.species[p] {
		if s == species {
			return
		}
	}
	v.species[p] = append(v.species[p], species)
}

func (v *Viewer) Species(p Page) []string {
	if !p.Valid() {
		return nil
	}
	return v.species[p]
}

// Empty reports whether no page has anything to show.
func (v *Viewer) Empty() bool {
	for p := range v.species {
		if len(v.species[p]) > 0 {
			return false
		}
	}
	return true
}

func (v *Viewer) FirstAvailablePage() Page {
	for p := PageLand; p < pageCount; p++ {
		if len(v.species[p]) > 0 {
			return p
		}
	}
	return PageLand
}

// NextAvailablePage walks from the current page in direction dir (+1 or -1),
// wrapping and skipping empty pages. It returns the current page when no
// other page has species.
func (v *Viewer) NextAvailablePage(dir int) Page {
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	p := v.Current
	for i := 0; i < int(pageCount); i++ {
		p += Page(dir)
		if p < 0 {
			p = pageCount - 1
		} else if p >= pageCount {
			p = 0
		}
		if len(v.species[p]) > 0 {
			return p
		}
	}
	return v.Current
}

// Turn moves to the next available page in dir and reports whether the page
// changed.
func (v *Viewer) Turn(dir int) bool {
	p := v.NextAvailablePage(dir)
	if p == v.Current {
		return false
	}
	v.Current = p
	return true
}
