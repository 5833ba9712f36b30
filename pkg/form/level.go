package form

import (
	"fmt"
	"strings"
)

// Level is an administrative granularity tag.
type Level string

const (
	LevelProvince Level = "province"
	LevelCity     Level = "city"
	LevelCounty   Level = "county"
)

// Levels lists every level in the default checkbox order.
var Levels = []Level{LevelProvince, LevelCity, LevelCounty}

var levelLabels = map[Level]string{
	LevelProvince: "省级",
	LevelCity:     "地级",
	LevelCounty:   "县级",
}

// Label returns the display label used by the page and the terminal prompts.
// Unknown levels fall back to their raw identifier.
func (l Level) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return string(l)
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// ParseLevel normalises a raw control value into a Level.
func ParseLevel(raw string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	if !level.Valid() {
		return "", fmt.Errorf("form: unknown level %q", raw)
	}
	return level, nil
}

// LevelSet is the set of checked level boxes. The zero value is empty and the
// type is comparable, so two selections can be checked with ==.
type LevelSet struct {
	Province bool `json:"province"`
	City     bool `json:"city"`
	County   bool `json:"county"`
}

// NewLevelSet builds a set from the provided levels, ignoring unknown ones.
func NewLevelSet(levels ...Level) LevelSet {
	var set LevelSet
	for _, level := range levels {
		set = set.With(level, true)
	}
	return set
}

// With returns a copy of the set with level checked or unchecked.
func (s LevelSet) With(level Level, checked bool) LevelSet {
	switch level {
	case LevelProvince:
		s.Province = checked
	case LevelCity:
		s.City = checked
	case LevelCounty:
		s.County = checked
	}
	return s
}

// Has reports whether level is checked.
func (s LevelSet) Has(level Level) bool {
	switch level {
	case LevelProvince:
		return s.Province
	case LevelCity:
		return s.City
	case LevelCounty:
		return s.County
	}
	return false
}

// Len returns the number of checked levels.
func (s LevelSet) Len() int {
	n := 0
	for _, level := range Levels {
		if s.Has(level) {
			n++
		}
	}
	return n
}

// Empty reports whether no level is checked.
func (s LevelSet) Empty() bool {
	return s.Len() == 0
}

// ProvinceOnly reports whether the selection is exactly {province}.
func (s LevelSet) ProvinceOnly() bool {
	return s == LevelSet{Province: true}
}

// Ordered returns the checked levels in the default checkbox order.
func (s LevelSet) Ordered() []Level {
	return s.OrderedBy(nil)
}

// OrderedBy returns the checked levels following order, the sequence in
// which the boxes appear on the page. See ControlOrder.
func (s LevelSet) OrderedBy(order []Level) []Level {
	out := make([]Level, 0, len(Levels))
	for _, level := range ControlOrder(order) {
		if s.Has(level) {
			out = append(out, level)
		}
	}
	return out
}

// Strings returns the checked level identifiers in the default checkbox order.
func (s LevelSet) Strings() []string {
	return levelStrings(s.Ordered())
}

// ControlOrder completes a page order of level boxes: unknown and repeated
// entries are dropped and levels missing from order follow in the default
// order.
func ControlOrder(order []Level) []Level {
	out := make([]Level, 0, len(Levels))
	var seen LevelSet
	for _, level := range append(append([]Level(nil), order...), Levels...) {
		if !level.Valid() || seen.Has(level) {
			continue
		}
		seen = seen.With(level, true)
		out = append(out, level)
	}
	return out
}

func levelStrings(levels []Level) []string {
	out := make([]string, len(levels))
	for i, level := range levels {
		out[i] = string(level)
	}
	return out
}
