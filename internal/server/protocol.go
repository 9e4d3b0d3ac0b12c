package server

import (
	"github.com/goliatone/go-formpreview/pkg/livesync"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/platform"
)

// Inbound message types sent by the bridge script.
const (
	MsgHello  = "hello"
	MsgInput  = "input"
	MsgResize = "resize"
	MsgReady  = "ready"
	MsgLayout = "layout"
	MsgPing   = "ping"
)

// Outbound message types sent to the bridge script.
const (
	MsgState   = "state"
	MsgAttach  = "attach"
	MsgDetach  = "detach"
	MsgProject = "project"
	MsgScroll  = "scroll"
	MsgPong    = "pong"
	MsgError   = "error"
)

// ClientMessage is the envelope for every inbound frame. Only the fields
// relevant to Type are populated.
type ClientMessage struct {
	Type     string                   `json:"type"`
	Variant  string                   `json:"variant,omitempty"`
	Field    string                   `json:"field,omitempty"`
	Value    string                   `json:"value,omitempty"`
	Width    float64                  `json:"width,omitempty"`
	Height   float64                  `json:"height,omitempty"`
	Context  platform.ContextID       `json:"context,omitempty"`
	Root     *platform.Rect           `json:"root,omitempty"`
	Elements map[string]platform.Rect `json:"elements,omitempty"`
	Values   model.Values             `json:"values,omitempty"`
}

// StateMessage mirrors the controller state after every handled event.
type StateMessage struct {
	Type       string              `json:"type"`
	Variant    string              `json:"variant"`
	Values     model.Values        `json:"values"`
	Errors     model.Errors        `json:"errors"`
	Overlay    string              `json:"overlay"`
	Breakpoint livesync.Breakpoint `json:"breakpoint"`
	Committed  *bool               `json:"committed,omitempty"`
}

// SurfaceMessage carries surface lifecycle and projection commands.
type SurfaceMessage struct {
	Type    string             `json:"type"`
	Context platform.ContextID `json:"context"`
	HTML    string             `json:"html,omitempty"`
}

// ScrollMessage asks the bridge to smooth-scroll a surface.
type ScrollMessage struct {
	Type     string             `json:"type"`
	Context  platform.ContextID `json:"context"`
	Top      float64            `json:"top"`
	Behavior string             `json:"behavior"`
}

// ErrorMessage reports a protocol problem. The session stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongMessage struct {
	Type string `json:"type"`
}

func stateMessage(snap livesync.Snapshot) StateMessage {
	return StateMessage{
		Type:       MsgState,
		Variant:    snap.Variant,
		Values:     snap.Values,
		Errors:     snap.Errors,
		Overlay:    snap.Overlay,
		Breakpoint: snap.Breakpoint,
	}
}
