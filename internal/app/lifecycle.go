package app

import (
	"sync"

	"grid-labeler/internal/logger"

	"fyne.io/fyne/v2"
)

// ErrorView shows err to the operator and calls onClosed once dismissed.
type ErrorView interface {
	ShowError(err error, onClosed func())
}

// Lifecycle ends the event loop when the session terminates. An error is
// shown to the operator before the window goes away.
type Lifecycle struct {
	fyneApp fyne.App
	view    ErrorView
	logger  logger.Logger

	once    sync.Once
	err     error
	running bool
}

func NewLifecycle(fyneApp fyne.App, view ErrorView, log logger.Logger) *Lifecycle {
	return &Lifecycle{fyneApp: fyneApp, view: view, logger: log}
}

// Finish records err and quits the application once.
func (l *Lifecycle) Finish(err error) {
	l.once.Do(func() {
		l.err = err
		if !l.running {
			// Terminated before the window was shown; Run reports err.
			return
		}
		if err == nil {
			l.logger.Debug("Lifecycle", "session finished", nil)
			l.fyneApp.Quit()
			return
		}

		l.logger.Error("Lifecycle", "session ended with an error", err, nil)
		l.view.ShowError(err, l.fyneApp.Quit)
	})
}

// MarkRunning tells Finish that the event loop is about to start.
func (l *Lifecycle) MarkRunning() {
	l.running = true
}

// Err is the error passed to Finish, if any.
func (l *Lifecycle) Err() error {
	return l.err
}
