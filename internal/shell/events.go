package shell

import (
	"fmt"

	"phodit/internal/ipc"
)

// ReadyPayload accompanies AppReady. Paths handed over by the OS (command
// line) replace startup restoration.
type ReadyPayload struct {
	Paths []string
}

// Attach subscribes the router to the channels it serves. The returned func
// detaches it again.
func (r *Router) Attach(bus Subscriber) func() {
	unsubscribers := []func(){
		bus.Subscribe(ipc.AppReady, r.handleReady),
		bus.Subscribe(ipc.AppReload, r.handleReload),
		bus.Subscribe(ipc.OpenDialog, r.handleOpenDialog),
		bus.Subscribe(ipc.OpenFile, r.handleOpenFile),
		bus.Subscribe(ipc.SaveFile, r.handleSaveFile),
		bus.Subscribe(ipc.PathChanged, r.handlePathChanged),
	}

	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

func (r *Router) handleReady(msg ipc.Message) {
	if ready, ok := msg.Payload.(ReadyPayload); ok && len(ready.Paths) > 0 {
		r.logOpen(r.Open(ready.Paths))
		return
	}
	r.handleReload(msg)
}

func (r *Router) handleReload(ipc.Message) {
	if err := r.Restore(); err != nil {
		r.logger.Error("Router", err, map[string]interface{}{"stage": "restore"})
	}
}

func (r *Router) handleOpenDialog(msg ipc.Message) {
	paths, ok := msg.Payload.([]string)
	if !ok {
		r.badPayload(msg)
		return
	}
	r.logOpen(r.Open(paths))
}

func (r *Router) handleOpenFile(msg ipc.Message) {
	path, ok := msg.Payload.(string)
	if !ok || path == "" {
		r.badPayload(msg)
		return
	}
	if err := r.checkOpenable(path); err != nil {
		r.logOpen(err)
		return
	}
	r.logOpen(r.OpenFile(path))
}

func (r *Router) handleSaveFile(msg ipc.Message) {
	var content string
	switch v := msg.Payload.(type) {
	case string:
		content = v
	case []byte:
		content = string(v)
	default:
		r.badPayload(msg)
		return
	}

	if err := r.Save(content); err != nil {
		r.logger.Error("Router", err, nil)
		r.sender.Send(ipc.SaveError, ipc.ErrorPayload{
			Path:  r.session.currentFile,
			Error: err.Error(),
		})
	}
}

func (r *Router) handlePathChanged(msg ipc.Message) {
	path, _ := msg.Payload.(string)
	if err := r.RefreshPath(path); err != nil {
		r.logger.Error("Router", err, map[string]interface{}{"stage": "refresh"})
	}
}

// Open failures were already reported to the view.
func (r *Router) logOpen(err error) {
	if err != nil {
		r.logger.Debug("Router", "open did not complete", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (r *Router) badPayload(msg ipc.Message) {
	r.logger.Warning("Router", "unexpected payload", map[string]interface{}{
		"channel": msg.Channel,
		"type":    fmt.Sprintf("%T", msg.Payload),
	})
}
