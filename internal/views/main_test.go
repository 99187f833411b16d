package views

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"grid-labeler/internal/catalog"
	"grid-labeler/internal/gui"
	"grid-labeler/internal/logger"
	"grid-labeler/internal/pager"
	"grid-labeler/internal/session"
	"grid-labeler/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

type blankLoader struct{}

func (blankLoader) Load(_ string, size int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}

type stubPrompter struct {
	asked int
	hold  bool
}

func (s *stubPrompter) Confirm(_ string, answer func(bool)) {
	s.asked++
	if s.hold {
		return
	}
	answer(false)
}

func newTestView(t *testing.T, images int) (*MainView, *session.Controller, *stubPrompter, *catalog.Store, string) {
	t.Helper()
	test.NewApp()
	ctx := context.Background()

	dir := t.TempDir()
	for i := 0; i < images; i++ {
		os.WriteFile(filepath.Join(dir, string(rune('a'+i))+".png"), []byte("x"), 0o644)
	}
	store, err := catalog.Open(dir, logger.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	paths, err := store.UnlabeledPaths(ctx, dir)
	if err != nil {
		t.Fatalf("UnlabeledPaths: %v", err)
	}
	pages, _ := pager.Chunks(paths, 4)

	grid := gui.NewGrid(gui.Geometry{Side: 2, CellPixels: 16}, blankLoader{}, logger.NewNop())
	view := NewMainView(test.NewWindow(nil), grid)
	prompter := &stubPrompter{}
	controller := session.NewController(ctx, store, pages, grid, prompter,
		session.Options{PositiveLabel: "1", NegativeLabel: "0"}, logger.NewNop())
	view.Bind(controller)
	return view, controller, prompter, store, dir
}

func TestKeysDriveController(t *testing.T) {
	view, controller, prompter, store, dir := newTestView(t, 6)
	controller.Start()

	if got := view.StatusBar().PageText(); got != "Page 1/2 (4 images)" {
		t.Errorf("unexpected page text %q", got)
	}

	test.Tap(view.grid.Cell(0))
	view.handleKey(&fyne.KeyEvent{Name: fyne.KeyReturn})

	label, err := store.Label(context.Background(), filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if label != "0" {
		t.Errorf("expected tapped cell labeled 0, got %q", label)
	}
	if got := view.StatusBar().LabeledText(); got != "Labeled: 4" {
		t.Errorf("unexpected labeled text %q", got)
	}
	if got := view.StatusBar().Progress(); got != 0.5 {
		t.Errorf("expected progress 0.5, got %g", got)
	}

	view.handleKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if prompter.asked != 1 {
		t.Errorf("expected escape to prompt once, got %d", prompter.asked)
	}
	if controller.State() != session.Terminated {
		t.Errorf("expected Terminated, got %v", controller.State())
	}
}

func TestKeypadEnterConfirms(t *testing.T) {
	view, controller, _, _, _ := newTestView(t, 5)
	controller.Start()

	view.handleKey(&fyne.KeyEvent{Name: fyne.KeyEnter})
	if got := view.StatusBar().PageText(); got != "Page 2/2 (1 images)" {
		t.Errorf("expected second page after keypad enter, got %q", got)
	}

	view.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	if controller.State() != session.ShowingPage {
		t.Errorf("unbound key changed state to %v", controller.State())
	}
}

func TestStatusBarDefaults(t *testing.T) {
	test.NewApp()
	grid := gui.NewGrid(gui.Geometry{Side: 1, CellPixels: 16}, blankLoader{}, logger.NewNop())
	view := NewMainView(test.NewWindow(nil), grid)

	if view.StatusBar().Status() != components.KeyHelp() {
		t.Errorf("unexpected initial status %q", view.StatusBar().Status())
	}
	view.UpdateStatus("saving")
	if view.StatusBar().Status() != "saving" {
		t.Errorf("status not updated")
	}
}

func TestCloseButton(t *testing.T) {
	tests := []struct {
		name       string
		hold       bool
		closes     int
		wantState  session.State
		wantPrompt int
	}{
		{name: "page on screen prompts", hold: true, closes: 1, wantState: session.AwaitingConfirmation, wantPrompt: 1},
		{name: "pending prompt closes window", hold: true, closes: 2, wantState: session.AwaitingConfirmation, wantPrompt: 1},
		{name: "terminated session closes window", hold: false, closes: 2, wantState: session.Terminated, wantPrompt: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, controller, prompter, _, _ := newTestView(t, 3)
			prompter.hold = tt.hold
			quits := 0
			view.quit = func() { quits++ }
			controller.Start()

			for i := 0; i < tt.closes; i++ {
				view.handleClose()
			}

			if prompter.asked != tt.wantPrompt {
				t.Errorf("expected %d prompts, got %d", tt.wantPrompt, prompter.asked)
			}
			if controller.State() != tt.wantState {
				t.Errorf("expected state %v, got %v", tt.wantState, controller.State())
			}
			if want := tt.closes - 1; quits != want {
				t.Errorf("expected %d window closes, got %d", want, quits)
			}
		})
	}
}

func TestShowErrorUpdatesStatus(t *testing.T) {
	test.NewApp()
	grid := gui.NewGrid(gui.Geometry{Side: 1, CellPixels: 16}, blankLoader{}, logger.NewNop())
	view := NewMainView(test.NewWindow(nil), grid)

	view.ShowError(errors.New("bad image"), nil)
	if view.StatusBar().Status() != "bad image" {
		t.Errorf("expected error in status, got %q", view.StatusBar().Status())
	}
}
