// Package model defines the plain data shared by the live preview pipeline:
// page variants and their fields, the committed Field Value Set and the derived
// Validation Error Set. Values are always replaced wholesale; callers never
// mutate a committed set in place, which keeps the "never partially invalid"
// guarantee easy to reason about.
package model
