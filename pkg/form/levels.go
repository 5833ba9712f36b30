package form

// ApplyLevels records the checked levels and recomputes the parent-match
// radios. With exactly {province} checked the "include parent" radio is
// disabled and "exclude parent" is forced. Any other selection, including an
// empty one, enables both radios and checks "include parent" when nothing is
// checked yet. Empty selections are rejected later by Validate.
func ApplyLevels(state FormState, levels LevelSet) FormState {
	next := state.clone()
	next.Levels = levels
	next.Parent = parentMatchFor(levels, state.Parent)
	return next
}

// ToggleLevel checks or unchecks a single level box.
func ToggleLevel(state FormState, level Level, checked bool) FormState {
	return ApplyLevels(state, state.Levels.With(level, checked))
}

// SelectParentMatch records a radio choice. Picking "include parent" while it
// is disabled has no effect.
func SelectParentMatch(state FormState, choice Choice) FormState {
	if choice == ChoiceYes && state.Parent.YesDisabled {
		return state
	}
	next := state.clone()
	next.Parent.Choice = choice
	return next
}

func parentMatchFor(levels LevelSet, current ParentMatch) ParentMatch {
	if levels.ProvinceOnly() {
		return ParentMatch{Choice: ChoiceNo, YesDisabled: true}
	}
	next := ParentMatch{Choice: current.Choice}
	if next.Choice == ChoiceNone {
		next.Choice = ChoiceYes
	}
	return next
}
