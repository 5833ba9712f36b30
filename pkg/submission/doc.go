// Package submission runs one submission attempt of the panel request form:
// snapshot, validate, disable the controls, call the generation service,
// interpret the response, re-enable the controls and hand the outcome to a
// presenter.
//
// The "controls disabled" period is modelled as a Lock acquired before the
// request is issued and released by a deferred call, so every exit path
// (success, handled failure, panic) re-enables the controls exactly once. While
// the lock is held, Submit returns ErrSubmissionInFlight without side effects.
package submission
