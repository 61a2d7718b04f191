package app

import (
	"fmt"

	"fyne.io/fyne/v2"

	"phodit/internal/config"
	"phodit/internal/fsgate"
	"phodit/internal/ipc"
	"phodit/internal/logger"
	"phodit/internal/settings"
	"phodit/internal/shell"
	"phodit/internal/shutdown"
	"phodit/internal/vcs"
	"phodit/internal/view"
	"phodit/internal/watch"
	"phodit/internal/window"
)

const (
	AppID      = "io.github.phodit"
	AppVersion = "0.1.0"

	busBufferSize = 64
)

type Application struct {
	fyneApp    fyne.App
	config     config.Config
	logger     logger.Logger
	bus        *ipc.Bus
	router     *shell.Router
	watcher    *watch.Watcher
	controller *window.Controller
	handlers   *Handlers
	shutdown   *shutdown.Manager

	// Owned by the UI thread.
	view       *view.MainView
	viewDetach func()

	initialPaths []string
}

// NewApplication wires the shell around fyneApp. initialPaths are files or
// directories handed over on the command line.
func NewApplication(fyneApp fyne.App, cfg config.Config, log logger.Logger, initialPaths []string) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := settings.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	log.Info("Application", "starting application", map[string]interface{}{
		"version":  AppVersion,
		"data_dir": cfg.DataDir,
		"watch":    cfg.Watch,
	})

	bus := ipc.NewBus(busBufferSize, log)

	a := &Application{
		fyneApp:      fyneApp,
		config:       cfg,
		logger:       log,
		bus:          bus,
		shutdown:     shutdown.NewManager(log),
		initialPaths: initialPaths,
	}

	deps := shell.Dependencies{
		Store:   store,
		FS:      fsgate.OS{},
		VCS:     vcs.NewGit(cfg.GitBinary),
		Sender:  bus,
		Logger:  log,
		Context: a.shutdown.Context(),
	}
	if cfg.Watch {
		a.watcher = watch.New(bus, watch.DefaultDebounce, log)
		deps.Watcher = a.watcher
	}
	a.router = shell.NewRouter(deps)

	a.handlers = NewHandlers(a)
	a.controller = window.NewController(fyneApp, a.handlers, window.Options{
		Title:       config.AppName,
		Content:     a.buildView,
		OnReady:     a.ready,
		OnClosed:    a.closed,
		DefaultSize: fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight),
	}, log)
	a.router.SetWindow(a.controller)

	a.setupLifecycle()

	log.Info("Application", "initialization complete", nil)
	return a, nil
}

func (a *Application) buildView(w fyne.Window) fyne.CanvasObject {
	if a.viewDetach != nil {
		a.viewDetach()
	}

	v := view.NewMainView(a.bus, a.controller)
	v.SetWindow(w)
	a.viewDetach = v.Attach(a.bus)
	a.view = v

	return v.Container()
}

// ready fires once the view of a new window is in place: the first window
// opens the command-line paths, later ones restore the remembered target.
func (a *Application) ready() {
	paths := a.initialPaths
	a.initialPaths = nil
	a.bus.Send(ipc.AppReady, shell.ReadyPayload{Paths: paths})
}

func (a *Application) closed() {
	if a.viewDetach != nil {
		a.viewDetach()
		a.viewDetach = nil
	}
	a.view = nil
}

func (a *Application) Router() *shell.Router {
	return a.router
}

func (a *Application) Controller() *window.Controller {
	return a.controller
}

func (a *Application) View() *view.MainView {
	return a.view
}

// Run shows the window and blocks in the UI loop.
func (a *Application) Run() error {
	a.shutdown.Listen(a.fyneApp.Quit)

	if a.controller.StayResident() {
		a.logger.Debug("Application", "staying resident after last window closes", nil)
	}

	a.controller.Create()
	a.logger.Info("Application", "GUI displayed", nil)

	a.fyneApp.Run()

	a.Shutdown()
	return nil
}
