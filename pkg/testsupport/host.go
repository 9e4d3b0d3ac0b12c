package testsupport

import (
	"errors"
	"sync"

	"github.com/goliatone/go-formpreview/pkg/platform"
)

// Host records the lifecycle calls a render surface makes.
type Host struct {
	mu       sync.Mutex
	attached []platform.ContextID
	detached []platform.ContextID
	docs     map[platform.ContextID][]string

	// FailReplace makes Replace return an error.
	FailReplace bool
}

// NewHost constructs an empty recording host.
func NewHost() *Host {
	return &Host{docs: make(map[platform.ContextID][]string)}
}

// Attach records a context creation.
func (h *Host) Attach(id platform.ContextID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached = append(h.attached, id)
	return nil
}

// Replace records a projected document.
func (h *Host) Replace(id platform.ContextID, document string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailReplace {
		return errors.New("testsupport: replace failed")
	}
	h.docs[id] = append(h.docs[id], document)
	return nil
}

// Detach records a context teardown.
func (h *Host) Detach(id platform.ContextID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detached = append(h.detached, id)
}

// Documents returns every document projected into id.
func (h *Host) Documents(id platform.ContextID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.docs[id]...)
}

// Lifecycle returns the attached and detached context ids.
func (h *Host) Lifecycle() (attached, detached []platform.ContextID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]platform.ContextID(nil), h.attached...), append([]platform.ContextID(nil), h.detached...)
}
