// Package livesync keeps a settings form, its validated values and an isolated
// preview surface in step.
//
// A Controller is mounted once per page view. Field edits are merged into a
// copy of the committed values and validated as a whole; only a fully valid
// set is committed and projected into the surface. When the edited field
// differs from the last one synced, the surface is scrolled so the matching
// preview element comes into view. The host container size is observed
// through a single resize listener and mapped to a coarse breakpoint label.
//
// Controllers are not safe for concurrent use; callers drive them from a
// single event loop.
package livesync
