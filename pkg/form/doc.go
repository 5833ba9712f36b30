// Package form holds the interactive logic of the administrative-code panel
// request form: the year range coupling, the level/parent-match coupling and
// the submit-time validator.
//
// Everything in this package is a pure function over FormState values. Front
// ends (the DOM adapter in pkg/dom, the terminal session in pkg/renderers/tui)
// read their controls into a FormState, run the controllers, and apply the
// returned state back to their controls.
package form
