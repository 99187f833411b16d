// Package views assembles the labeling window: the grid, the status bar,
// key bindings and confirmation prompts.
package views

import (
	"grid-labeler/internal/gui"
	"grid-labeler/internal/session"
	"grid-labeler/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
)

// MainView is the single labeling window.
type MainView struct {
	window        fyne.Window
	grid          *gui.Grid
	statusBar     *components.StatusBar
	mainContainer *fyne.Container

	controller *session.Controller
	quit       func()
}

// NewMainView lays out grid above the status bar inside window.
func NewMainView(window fyne.Window, grid *gui.Grid) *MainView {
	view := &MainView{
		window:    window,
		grid:      grid,
		statusBar: components.NewStatusBar(),
	}
	view.quit = view.Close

	view.buildLayout()
	view.setupEventHandlers()
	return view
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.grid.Object(),
	)
	mv.window.SetContent(mv.mainContainer)

	side := float32(mv.grid.Geometry().WindowPixels())
	mv.window.Resize(fyne.NewSize(side, side+mv.statusBar.GetContainer().MinSize().Height))
	mv.window.SetFixedSize(true)
}

func (mv *MainView) setupEventHandlers() {
	mv.window.Canvas().SetOnTypedKey(mv.handleKey)
	mv.window.SetCloseIntercept(mv.handleClose)
}

// handleClose treats the close button as Escape while a page is on screen.
// With a prompt pending or the session over it closes the window, which
// ends the event loop without committing.
func (mv *MainView) handleClose() {
	if mv.controller != nil && mv.controller.State() == session.ShowingPage {
		mv.controller.OnCancel()
		return
	}
	mv.quit()
}

func (mv *MainView) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		if mv.controller != nil {
			mv.controller.OnConfirm()
		}
	case fyne.KeyEscape:
		if mv.controller != nil {
			mv.controller.OnCancel()
		}
	}
}

// Bind routes clicks, Enter and Escape to the controller. Closing the
// window counts as Escape.
func (mv *MainView) Bind(c *session.Controller) {
	mv.grid.SetOnCellTapped(c.OnClick)
	mv.controller = c
	c.SetOnProgress(mv.UpdateProgress)
}

// UpdateProgress refreshes the status bar for a new page.
func (mv *MainView) UpdateProgress(p session.Progress) {
	mv.statusBar.SetPage(p.Page, p.Pages, p.Images)
	mv.statusBar.SetLabeled(p.Labeled)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// ShowError displays err in a dialog and calls onClosed when it is
// dismissed.
func (mv *MainView) ShowError(err error, onClosed func()) {
	mv.UpdateStatus(err.Error())
	errDialog := dialog.NewError(err, mv.window)
	if onClosed != nil {
		errDialog.SetOnClosed(onClosed)
	}
	errDialog.Show()
}

// Confirm asks question in a modal dialog. It satisfies session.Prompter.
func (mv *MainView) Confirm(question string, answer func(bool)) {
	mv.UpdateStatus(question)
	dialog.ShowConfirm("Save labels", question, answer, mv.window)
}

// StatusBar exposes the status bar for tests.
func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

// Close closes the main window, ending the event loop.
func (mv *MainView) Close() {
	mv.window.Close()
}
