// Package server hosts the settings page over HTTP and drives one live sync
// controller per browser page view through a websocket session.
//
// The browser bridge script reports input, container size, surface readiness
// and surface layout; the session answers with state updates, projected
// surface documents and scroll requests. Each session's read loop is the
// event loop: inbound messages are handled one at a time on that goroutine.
package server
