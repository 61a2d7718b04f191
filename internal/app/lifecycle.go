package app

import (
	"phodit/internal/shutdown"
)

// setupLifecycle registers components in start order; they stop in reverse.
func (a *Application) setupLifecycle() {
	detachRouter := a.router.Attach(a.bus)

	a.shutdown.Register("bus", a.bus)
	a.shutdown.Register("router", shutdown.Func(detachRouter))
	if a.watcher != nil {
		a.shutdown.Register("watcher", a.watcher)
	}
}

// Shutdown stops the watcher, detaches the router and drains the bus. Safe
// to call more than once.
func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}
