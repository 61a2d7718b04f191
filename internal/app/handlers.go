package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"phodit/internal/ipc"
)

// Handlers implements the menu's editor actions. Every method runs on the
// UI thread and hands work to the bus.
type Handlers struct {
	app *Application
}

func NewHandlers(a *Application) *Handlers {
	return &Handlers{app: a}
}

func (h *Handlers) window() fyne.Window {
	return h.app.controller.Window()
}

func (h *Handlers) Open() {
	w := h.window()
	if w == nil {
		return
	}

	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			h.showError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		h.app.bus.Send(ipc.OpenDialog, []string{path})
	}, w)
}

func (h *Handlers) OpenFolder() {
	w := h.window()
	if w == nil {
		return
	}

	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			h.showError(err)
			return
		}
		if dir == nil {
			return
		}
		h.app.bus.Send(ipc.OpenDialog, []string{dir.Path()})
	}, w)
}

func (h *Handlers) OpenRecent(path string) {
	h.app.bus.Send(ipc.OpenDialog, []string{path})
}

func (h *Handlers) Save() {
	v := h.app.view
	if v == nil {
		return
	}
	h.app.bus.Send(ipc.SaveFile, v.Content())
}

func (h *Handlers) ToggleDevTools() {
	if v := h.app.view; v != nil {
		v.ToggleDeveloperPanel()
	}
}

// Reload clears the view and replays startup restoration into it.
func (h *Handlers) Reload() {
	if v := h.app.view; v != nil {
		v.Reset()
	}
	h.app.bus.Send(ipc.AppReload, nil)
}

func (h *Handlers) showError(err error) {
	h.app.logger.Error("Handlers", err, nil)
	if w := h.window(); w != nil {
		dialog.ShowError(err, w)
	}
}
