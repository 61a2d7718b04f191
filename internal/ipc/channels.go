package ipc

// View to shell.
const (
	OpenFile = "phodit.open.file"
	SaveFile = "phodit.save.file"
)

// Shell to view.
const (
	OneFileOpened = "phodit.open.one-file"
	PathOpened    = "phodit.open.path"
	GitStatus     = "phodit.git.status"
	OpenError     = "phodit.open.error"
	SaveError     = "phodit.save.error"
	FileSaved     = "phodit.file.saved"
)

// Native application events routed through the same loop.
const (
	AppReady    = "phodit.app.ready"
	AppReload   = "phodit.app.reload"
	OpenDialog  = "phodit.app.open-dialog"
	PathChanged = "phodit.path.changed"
)

// Wildcard subscribes to every channel.
const Wildcard = "*"

// ErrorPayload accompanies OpenError and SaveError.
type ErrorPayload struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SavedPayload accompanies FileSaved.
type SavedPayload struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}
