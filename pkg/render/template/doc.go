// Package template defines the template engine seam used by the result,
// modal and page renderers. The default implementation lives in the
// gotemplate subpackage.
package template
