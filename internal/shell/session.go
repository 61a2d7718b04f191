package shell

// Session is the state of one application run. It is only touched from the
// bus loop, so it carries no lock.
type Session struct {
	currentFile string
	currentPath string
}

func NewSession() *Session {
	return &Session{}
}

// CurrentFile is the file saves are written to; empty until a file is opened.
func (s *Session) CurrentFile() string {
	return s.currentFile
}

// CurrentPath is the directory shown in the file browser.
func (s *Session) CurrentPath() string {
	return s.currentPath
}
