package form

const (
	// MinYear is the first year covered by the dataset.
	MinYear = 1980
	// MaxYear is the last supported year; end years are clamped to it.
	MaxYear = 2023
	// DefaultStartYear is selected on first load.
	DefaultStartYear = MinYear
)

// StartYearOptions returns the start-year candidates [MinYear, MaxYear].
func StartYearOptions() []int {
	return yearSpan(MinYear, MaxYear)
}

// EndYearOptions returns the end-year candidates for start: [start, MaxYear]
// ascending. A start beyond MaxYear yields no candidates.
func EndYearOptions(start int) []int {
	return yearSpan(start, MaxYear)
}

// ApplyStartYear records a new start year and rebuilds the end-year
// candidates. The previous end year survives when it still lies in
// [start, MaxYear]; otherwise MaxYear is selected.
func ApplyStartYear(state FormState, start int) FormState {
	next := state.clone()
	next.StartYear = start
	next.EndOptions = EndYearOptions(start)
	if !(state.EndYear >= start && state.EndYear <= MaxYear) {
		next.EndYear = MaxYear
	}
	return next
}

// SelectStartYear records a user-chosen start year. Years outside the start
// candidates are ignored and the state is returned unchanged; a state with no
// candidates accepts [MinYear, MaxYear].
func SelectStartYear(state FormState, start int) FormState {
	if len(state.StartOptions) == 0 {
		if start < MinYear || start > MaxYear {
			return state
		}
	} else if !containsYear(state.StartOptions, start) {
		return state
	}
	return ApplyStartYear(state, start)
}

// SelectEndYear records a user-chosen end year. Years outside the current
// candidates are ignored and the state is returned unchanged.
func SelectEndYear(state FormState, end int) FormState {
	if !containsYear(state.EndOptions, end) {
		return state
	}
	next := state.clone()
	next.EndYear = end
	return next
}

func yearSpan(from, to int) []int {
	if from > to {
		return []int{}
	}
	out := make([]int, 0, to-from+1)
	for year := from; year <= to; year++ {
		out = append(out, year)
	}
	return out
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
