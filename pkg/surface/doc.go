// Package surface implements the isolated render surface: a separate browsing
// context owned by the host component that receives projected preview content.
//
// The surface follows an explicit ownership and readiness gate. Mount creates
// the context through a Host, MarkReady records that the context's body is
// available, and only then does Project hand content over. Content projected
// before readiness is remembered and delivered on the first ready signal;
// a context that never becomes ready never receives anything and no error is
// raised.
package surface
