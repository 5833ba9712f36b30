package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Choice is the value of the parent-match radio group.
type Choice string

const (
	// ChoiceNone means neither radio is checked.
	ChoiceNone Choice = ""
	// ChoiceYes is the "include parent" radio.
	ChoiceYes Choice = "yes"
	// ChoiceNo is the "exclude parent" radio.
	ChoiceNo Choice = "no"
)

// ParseChoice normalises a radio value. Anything other than yes/no maps to
// ChoiceNone.
func ParseChoice(raw string) Choice {
	switch Choice(strings.ToLower(strings.TrimSpace(raw))) {
	case ChoiceYes:
		return ChoiceYes
	case ChoiceNo:
		return ChoiceNo
	default:
		return ChoiceNone
	}
}

// ParentMatch is the state of the parent-match radio group.
type ParentMatch struct {
	Choice      Choice `json:"choice"`
	YesDisabled bool   `json:"yesDisabled"`
}

// Include reports whether the "include parent" radio is checked.
func (p ParentMatch) Include() bool {
	return p.Choice == ChoiceYes
}

// FormState is the full state of the bound controls. Controllers take a
// FormState and return the next one; they never mutate their input.
type FormState struct {
	StartYear    int         `json:"startYear"`
	EndYear      int         `json:"endYear"`
	StartOptions []int       `json:"startOptions"`
	EndOptions   []int       `json:"endOptions"`
	Levels       LevelSet    `json:"levels"`
	LevelOrder   []Level     `json:"levelOrder,omitempty"`
	Parent       ParentMatch `json:"parentMatch"`
}

// Init returns the state shown on first load: default start year, end year
// candidates derived from it, city pre-selected and "include parent" checked.
func Init() FormState {
	state := FormState{
		StartYear:    DefaultStartYear,
		EndYear:      MaxYear,
		StartOptions: StartYearOptions(),
		LevelOrder:   append([]Level(nil), Levels...),
		Parent:       ParentMatch{Choice: ChoiceYes},
	}
	state = ApplyStartYear(state, DefaultStartYear)
	return ApplyLevels(state, NewLevelSet(LevelCity))
}

// Snapshot captures the values submitted by the form.
func (s FormState) Snapshot() Snapshot {
	return Snapshot{
		StartYear:     s.StartYear,
		EndYear:       s.EndYear,
		Levels:        s.Levels,
		LevelOrder:    append([]Level(nil), s.LevelOrder...),
		IncludeParent: s.Parent.Include(),
	}
}

func (s FormState) clone() FormState {
	out := s
	out.StartOptions = append([]int(nil), s.StartOptions...)
	out.EndOptions = append([]int(nil), s.EndOptions...)
	out.LevelOrder = append([]Level(nil), s.LevelOrder...)
	return out
}

// Snapshot is the immutable view of the form captured at submit time.
type Snapshot struct {
	StartYear     int
	EndYear       int
	Levels        LevelSet
	LevelOrder    []Level
	IncludeParent bool
}

// Request is the JSON body sent to the generation endpoint.
type Request struct {
	StartYear     int      `json:"startYear"`
	EndYear       int      `json:"endYear"`
	Levels        []string `json:"levels"`
	IncludeParent bool     `json:"includeParent"`
}

// Request serialises the snapshot. Levels follow the order the boxes had on
// the page when it was captured.
func (s Snapshot) Request() Request {
	return Request{
		StartYear:     s.StartYear,
		EndYear:       s.EndYear,
		Levels:        levelStrings(s.Levels.OrderedBy(s.LevelOrder)),
		IncludeParent: s.IncludeParent,
	}
}

// ParseYear normalises a control value into an integer year. Option values
// arrive as strings from the page and must never be compared as strings.
func ParseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("form: invalid year %q: %w", raw, err)
	}
	return year, nil
}
