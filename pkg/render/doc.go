// Package render turns submission outcomes and form state into markup: the
// success panel placed in the result container, the notification modal and
// the full form page served by the host.
//
// Rendered fragments pass through a bluemonday policy before they reach a
// page, so only http(s) and relative download links survive.
package render
