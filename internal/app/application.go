// Package app wires the catalog, grid, controller and window into one
// runnable labeling session.
package app

import (
	"context"
	"os"

	"grid-labeler/internal/catalog"
	"grid-labeler/internal/config"
	"grid-labeler/internal/gui"
	"grid-labeler/internal/logger"
	"grid-labeler/internal/pager"
	"grid-labeler/internal/preprocess"
	"grid-labeler/internal/session"
	"grid-labeler/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName = "Grid Labeler"
	AppID   = "com.gridlabeler.app"
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	view       *views.MainView
	controller *session.Controller
	lifecycle  *Lifecycle
	logger     logger.Logger
}

// NewApplication builds the window for labeling paths with cfg. paths must
// be non-empty; the caller reports an empty snapshot itself.
func NewApplication(ctx context.Context, cfg config.Config, store *catalog.Store, paths []string, version string, log logger.Logger) (*Application, error) {
	geometry, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	resampler, err := preprocess.ParseResampler(cfg.Resampler)
	if err != nil {
		return nil, err
	}
	pages, err := pager.Chunks(paths, cfg.PageSize())
	if err != nil {
		return nil, err
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: version,
	})

	window := fyneApp.NewWindow(AppName)
	window.SetPadded(false)
	window.SetMaster()

	grid := gui.NewGrid(geometry, preprocess.NewLoader(resampler, log), log)
	view := views.NewMainView(window, grid)

	var prompter session.Prompter = view
	if cfg.Prompt == config.PromptConsole {
		prompter = session.NewConsolePrompter(os.Stdin, os.Stdout, log)
	}

	controller := session.NewController(ctx, store, pages, grid, prompter, session.Options{
		PositiveLabel: cfg.PositiveLabel,
		NegativeLabel: cfg.NegativeLabel,
		HidePositive:  cfg.HidePositive,
	}, log)
	view.Bind(controller)

	lifecycle := NewLifecycle(fyneApp, view, log)
	controller.SetOnDone(lifecycle.Finish)

	log.Info("Application", "window prepared", map[string]interface{}{
		"grid":        geometry.Side,
		"cell_pixels": geometry.CellPixels,
		"images":      len(paths),
		"pages":       pages.Pages(),
		"resampler":   cfg.Resampler,
		"prompt":      cfg.Prompt,
	})

	return &Application{
		fyneApp:    fyneApp,
		window:     window,
		view:       view,
		controller: controller,
		lifecycle:  lifecycle,
		logger:     log,
	}, nil
}

// Run shows the first page and blocks in the Fyne event loop until the
// session terminates. It returns the error that ended the session, if any.
func (a *Application) Run() error {
	a.controller.Start()
	if a.controller.State() == session.Terminated {
		return a.lifecycle.Err()
	}

	a.lifecycle.MarkRunning()
	a.logger.Info("Application", "GUI displayed", nil)
	a.window.ShowAndRun()

	a.logger.Info("Application", "event loop finished", map[string]interface{}{
		"labeled": a.controller.Labeled(),
		"state":   a.controller.State().String(),
	})
	return a.lifecycle.Err()
}

// Quit stops the event loop from any goroutine.
func (a *Application) Quit() {
	fyne.Do(a.fyneApp.Quit)
}
