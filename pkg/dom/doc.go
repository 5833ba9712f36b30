// Package dom binds the form controllers to an HTML document exposing the
// form markup: the year selects, the level[] checkboxes, the parentMatch
// radios, the result area and the modal. Pages are parsed with goquery; all
// decisions are delegated to package form and package submission.
package dom
