package datarecording

import "github.com/tebeka/atexit"

// exitFlush keeps a recorder flushed on atexit.Exit until the recorder is
// closed.
type exitFlush struct {
	id     atexit.HandlerID
	active bool
}

func registerExitFlush(flush func()) exitFlush {
	return exitFlush{id: atexit.Register(flush), active: true}
}

func (h *exitFlush) release() {
	if !h.active {
		return
	}

	_ = h.id.Cancel()
	h.active = false
}
