// Package window owns the application's single window: its geometry, its
// menu, title handling and what happens when it closes.
package window

import (
	"net/url"
	"path/filepath"
	"runtime"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"phodit/internal/logger"
)

const (
	prefRecent = "recent.documents"
	maxRecent  = 10

	editedSuffix = " (edited)"
)

// ShouldQuitOnAllClosed reports whether closing the last window ends the
// process. On macOS the app stays resident and recreates its window.
func ShouldQuitOnAllClosed(goos string) bool {
	return goos != "darwin"
}

type Options struct {
	Title string
	// Content builds the view for a freshly created window.
	Content func(w fyne.Window) fyne.CanvasObject
	// OnReady runs once the content of a new window is in place.
	OnReady func()
	// OnClosed runs after the window was closed and released.
	OnClosed    func()
	DefaultSize fyne.Size
	GOOS        string
}

type Controller struct {
	app     fyne.App
	actions EditorActions
	keeper  *GeometryKeeper
	opts    Options
	logger  logger.Logger
	openURL func(*url.URL) error

	mu             sync.Mutex
	window         fyne.Window
	title          string
	represented    string
	documentEdited bool
}

func NewController(app fyne.App, actions EditorActions, opts Options, log logger.Logger) *Controller {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return &Controller{
		app:     app,
		actions: actions,
		keeper:  NewGeometryKeeper(app.Preferences(), opts.DefaultSize),
		opts:    opts,
		logger:  log,
		openURL: app.OpenURL,
		title:   opts.Title,
	}
}

// Create opens the window unless one already exists. Must run on the UI thread.
func (c *Controller) Create() fyne.Window {
	c.mu.Lock()
	if c.window != nil {
		w := c.window
		c.mu.Unlock()
		return w
	}
	c.mu.Unlock()

	w := c.app.NewWindow(c.opts.Title)
	size := c.keeper.Load()
	w.Resize(size)

	var content fyne.CanvasObject = container.NewStack()
	if c.opts.Content != nil {
		content = c.opts.Content(w)
	}
	w.SetContent(container.New(newTrackingLayout(c.keeper.Save), content))

	w.SetMainMenu(BuildMenu(c.actions, c.RecentDocuments()))
	registerShortcuts(w.Canvas(), c.actions)

	w.SetOnClosed(c.handleClosed)

	c.mu.Lock()
	c.window = w
	c.title = c.opts.Title
	c.documentEdited = false
	c.mu.Unlock()

	c.SetDocumentEdited(true)
	w.Show()

	c.logger.Info("Window", "window created", map[string]interface{}{
		"width":  size.Width,
		"height": size.Height,
	})

	if c.opts.OnReady != nil {
		c.opts.OnReady()
	}
	return w
}

// Activate recreates the window after it was closed.
func (c *Controller) Activate() {
	if c.Window() == nil {
		c.Create()
	}
}

func (c *Controller) Window() fyne.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

func (c *Controller) handleClosed() {
	c.mu.Lock()
	w := c.window
	c.window = nil
	c.mu.Unlock()

	if w != nil {
		c.keeper.Save(w.Canvas().Size())
	}

	c.logger.Info("Window", "window closed", nil)
	if c.opts.OnClosed != nil {
		c.opts.OnClosed()
	}

	if ShouldQuitOnAllClosed(c.opts.GOOS) {
		c.app.Quit()
	}
}

// StayResident keeps the process reachable from the system tray once its
// window is gone, where the platform convention allows it.
func (c *Controller) StayResident() bool {
	if ShouldQuitOnAllClosed(c.opts.GOOS) {
		return false
	}
	desk, ok := c.app.(desktop.App)
	if !ok {
		return false
	}

	desk.SetSystemTrayMenu(fyne.NewMenu(c.opts.Title,
		fyne.NewMenuItem("Show Window", c.Activate),
	))
	c.app.Lifecycle().SetOnEnteredForeground(func() {
		c.Activate()
	})
	return true
}

// SetTitle, SetRepresentedFile and AddRecentDocument may be called from any goroutine.

func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
	c.applyTitle()
}

// SetDocumentEdited marks the window as holding unsaved changes.
func (c *Controller) SetDocumentEdited(edited bool) {
	c.mu.Lock()
	c.documentEdited = edited
	c.mu.Unlock()
	c.applyTitle()
}

func (c *Controller) DocumentEdited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentEdited
}

func (c *Controller) applyTitle() {
	c.mu.Lock()
	w := c.window
	title := c.title
	if c.documentEdited {
		title += editedSuffix
	}
	c.mu.Unlock()

	if w == nil {
		return
	}
	fyne.Do(func() {
		w.SetTitle(title)
	})
}

func (c *Controller) SetRepresentedFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.represented = path
}

func (c *Controller) RepresentedFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.represented
}

// AddRecentDocument moves path to the front of the recent list and rebuilds
// the menu.
func (c *Controller) AddRecentDocument(path string) {
	recent := []string{path}
	for _, p := range c.RecentDocuments() {
		if p != path && len(recent) < maxRecent {
			recent = append(recent, p)
		}
	}
	c.app.Preferences().SetStringList(prefRecent, recent)

	w := c.Window()
	if w == nil {
		return
	}
	fyne.Do(func() {
		w.SetMainMenu(BuildMenu(c.actions, recent))
	})
}

func (c *Controller) RecentDocuments() []string {
	return c.app.Preferences().StringList(prefRecent)
}

// Navigate sends links away from the current document to the platform
// browser instead of following them in the window.
func (c *Controller) Navigate(u *url.URL) {
	if u == nil {
		return
	}

	if u.Scheme == "file" || u.Scheme == "" {
		if current := c.RepresentedFile(); current != "" && filepath.Clean(u.Path) == filepath.Clean(current) {
			return
		}
	}

	if err := c.openURL(u); err != nil {
		c.logger.Error("Window", err, map[string]interface{}{"url": u.String()})
	}
}
