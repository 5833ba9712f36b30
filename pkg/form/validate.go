package form

import "errors"

// Validation messages shown to the user.
const (
	MsgYearOrder      = "起始年份不能大于终止年份"
	MsgLevelsRequired = "请至少选择一个层级"
	MsgProvinceParent = "省级行政区划不需要匹配上级"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("form: invalid submission")

// ValidationError carries the user-facing message of the first failing rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "form: " + e.Message
}

// Is lets errors.Is(err, ErrInvalid) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Verdict is the result of Validate.
type Verdict struct {
	OK      bool
	Message string
}

// Err returns nil for an accepted snapshot and a *ValidationError otherwise.
func (v Verdict) Err() error {
	if v.OK {
		return nil
	}
	return &ValidationError{Message: v.Message}
}

// Validate checks whether snap may be submitted. Rules run in order and the
// first failure wins:
//
//  1. start year after end year
//  2. no level selected
//  3. parent matching requested for a province-only selection
func Validate(snap Snapshot) Verdict {
	switch {
	case snap.StartYear > snap.EndYear:
		return Verdict{Message: MsgYearOrder}
	case snap.Levels.Empty():
		return Verdict{Message: MsgLevelsRequired}
	case snap.IncludeParent && snap.Levels.ProvinceOnly():
		return Verdict{Message: MsgProvinceParent}
	}
	return Verdict{OK: true}
}
