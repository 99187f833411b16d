package session

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

	"fyne.io/fyne/v2/test"
)

type blankLoader struct {
	fail string
}

func (b blankLoader) Load(path string, size int) (image.Image, error) {
	if b.fail != "" && filepath.Base(path) == b.fail {
		return nil, errors.New("corrupt image")
	}
	return image.NewRGBA(image.Rect(0, 0, size, size)), nil
}

type fakePrompter struct {
	questions []string
	answer    func(bool)
}

func (f *fakePrompter) Confirm(question string, answer func(bool)) {
	f.questions = append(f.questions, question)
	f.answer = answer
}

type fixture struct {
	dir        string
	store      *catalog.Store
	grid       *gui.Grid
	prompter   *fakePrompter
	controller *Controller
	done       []error
	progress   []Progress
}

func newFixture(t *testing.T, images, side int, options Options, loader gui.ImageLoader) *fixture {
	t.Helper()
	test.NewApp()
	ctx := context.Background()

	dir := t.TempDir()
	for i := 0; i < images; i++ {
		name := filepath.Join(dir, string(rune('a'+i))+".jpg")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
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
	pages, err := pager.Chunks(paths, side*side)
	if err != nil {
		t.Fatalf("Chunks: %v", err)
	}

	if loader == nil {
		loader = blankLoader{}
	}
	f := &fixture{
		dir:      dir,
		store:    store,
		grid:     gui.NewGrid(gui.Geometry{Side: side, CellPixels: 8}, loader, logger.NewNop()),
		prompter: &fakePrompter{},
	}
	f.controller = NewController(ctx, store, pages, f.grid, f.prompter, options, logger.NewNop())
	f.controller.SetOnDone(func(err error) { f.done = append(f.done, err) })
	f.controller.SetOnProgress(func(p Progress) { f.progress = append(f.progress, p) })
	return f
}

func (f *fixture) label(t *testing.T, name string) string {
	t.Helper()
	label, err := f.store.Label(context.Background(), filepath.Join(f.dir, name))
	if err != nil {
		t.Fatalf("Label(%s): %v", name, err)
	}
	return label
}

var defaults = Options{PositiveLabel: "1", NegativeLabel: "0"}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name         string
		hidePositive bool
		visible      bool
		expected     string
	}{
		{name: "visible is positive", visible: true, expected: "yes"},
		{name: "hidden is negative", visible: false, expected: "no"},
		{name: "hide_positive visible is negative", hidePositive: true, visible: true, expected: "no"},
		{name: "hide_positive hidden is positive", hidePositive: true, visible: false, expected: "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{PositiveLabel: "yes", NegativeLabel: "no", HidePositive: tt.hidePositive}
			if got := o.LabelFor(tt.visible); got != tt.expected {
				t.Errorf("LabelFor(%v) = %q, want %q", tt.visible, got, tt.expected)
			}
		})
	}
}

func TestFiveImagesTwoByTwo(t *testing.T) {
	f := newFixture(t, 5, 2, defaults, nil)

	f.controller.Start()
	if f.controller.State() != ShowingPage {
		t.Fatalf("expected ShowingPage, got %v", f.controller.State())
	}
	cells := f.grid.Cells()
	for i, cell := range cells {
		if cell.Path == "" || !cell.Visible {
			t.Errorf("first page cell %d should show an image, got %+v", i, cell)
		}
	}
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		if got := f.label(t, name); got != catalog.Unlabeled {
			t.Errorf("Start committed %s as %q", name, got)
		}
	}

	f.controller.OnConfirm()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		if got := f.label(t, name); got != "1" {
			t.Errorf("expected %s labeled 1, got %q", name, got)
		}
	}
	cells = f.grid.Cells()
	if cells[0].Path != filepath.Join(f.dir, "e.jpg") || !cells[0].Visible {
		t.Errorf("expected e.jpg in the first cell, got %+v", cells[0])
	}
	for i := 1; i < 4; i++ {
		if cells[i] != (gui.CellState{}) {
			t.Errorf("expected cell %d hidden and cleared, got %+v", i, cells[i])
		}
	}
	if f.label(t, "e.jpg") != catalog.Unlabeled {
		t.Error("second page committed too early")
	}

	f.controller.OnConfirm()
	if f.controller.State() != Terminated {
		t.Fatalf("expected Terminated after last page, got %v", f.controller.State())
	}
	if f.label(t, "e.jpg") != "1" {
		t.Error("expected last page committed")
	}
	if len(f.done) != 1 || f.done[0] != nil {
		t.Errorf("expected one clean termination, got %v", f.done)
	}
	if f.controller.Labeled() != 5 {
		t.Errorf("expected 5 labels, got %d", f.controller.Labeled())
	}
	if len(f.progress) != 2 || f.progress[1] != (Progress{Page: 2, Pages: 2, Images: 1, Labeled: 4}) {
		t.Errorf("unexpected progress %+v", f.progress)
	}
}

func TestClickedCellsGetNegativeLabel(t *testing.T) {
	f := newFixture(t, 4, 2, defaults, nil)
	f.controller.Start()

	f.controller.OnClick(1)
	f.controller.OnClick(3)
	f.controller.OnClick(3)
	f.controller.OnConfirm()

	expected := map[string]string{"a.jpg": "1", "b.jpg": "0", "c.jpg": "1", "d.jpg": "1"}
	for name, want := range expected {
		if got := f.label(t, name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
}

func TestHidePositiveInvertsLabels(t *testing.T) {
	opts := Options{PositiveLabel: "cat", NegativeLabel: "dog", HidePositive: true}
	f := newFixture(t, 2, 1, opts, nil)
	f.controller.Start()

	f.controller.OnClick(0)
	f.controller.OnConfirm()
	f.controller.OnConfirm()

	if got := f.label(t, "a.jpg"); got != "cat" {
		t.Errorf("clicked cell with hide_positive: expected cat, got %q", got)
	}
	if got := f.label(t, "b.jpg"); got != "dog" {
		t.Errorf("untouched cell with hide_positive: expected dog, got %q", got)
	}
}

func TestCancelDeclinedDiscardsPage(t *testing.T) {
	f := newFixture(t, 3, 2, defaults, nil)
	f.controller.Start()
	f.controller.OnClick(0)

	f.controller.OnCancel()
	if f.controller.State() != AwaitingConfirmation {
		t.Fatalf("expected AwaitingConfirmation, got %v", f.controller.State())
	}
	if len(f.prompter.questions) != 1 || f.prompter.questions[0] != SaveQuestion {
		t.Errorf("unexpected prompt %v", f.prompter.questions)
	}

	f.prompter.answer(false)
	if f.controller.State() != Terminated {
		t.Fatalf("expected Terminated, got %v", f.controller.State())
	}
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if got := f.label(t, name); got != catalog.Unlabeled {
			t.Errorf("declined page wrote %s = %q", name, got)
		}
	}
	if len(f.done) != 1 || f.done[0] != nil {
		t.Errorf("expected clean termination, got %v", f.done)
	}
}

func TestCancelAcceptedCommitsPage(t *testing.T) {
	f := newFixture(t, 3, 2, defaults, nil)
	f.controller.Start()
	f.controller.OnClick(2)

	f.controller.OnCancel()
	f.prompter.answer(true)

	expected := map[string]string{"a.jpg": "1", "b.jpg": "1", "c.jpg": "0"}
	for name, want := range expected {
		if got := f.label(t, name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
	if f.controller.State() != Terminated {
		t.Errorf("expected Terminated, got %v", f.controller.State())
	}
}

func TestInputIgnoredWhileAwaitingConfirmation(t *testing.T) {
	f := newFixture(t, 4, 1, defaults, nil)
	f.controller.Start()
	f.controller.OnCancel()

	f.controller.OnClick(0)
	f.controller.OnConfirm()
	f.controller.OnCancel()

	if len(f.prompter.questions) != 1 {
		t.Errorf("expected a single prompt, got %d", len(f.prompter.questions))
	}
	if !f.grid.Cells()[0].Visible {
		t.Error("click toggled a cell while awaiting confirmation")
	}
	if f.label(t, "a.jpg") != catalog.Unlabeled {
		t.Error("confirm committed while awaiting confirmation")
	}

	f.prompter.answer(true)
	f.prompter.answer(false)
	if len(f.done) != 1 {
		t.Errorf("expected one termination, got %d", len(f.done))
	}
}

func TestEventsBeforeStartAreIgnored(t *testing.T) {
	f := newFixture(t, 1, 1, defaults, nil)
	f.controller.OnConfirm()
	f.controller.OnCancel()
	f.controller.OnClick(0)

	if f.controller.State() != AwaitingFirstPage {
		t.Errorf("expected AwaitingFirstPage, got %v", f.controller.State())
	}
	if len(f.prompter.questions) != 0 {
		t.Error("cancel before start prompted")
	}
}

func TestStartWithNothingToLabel(t *testing.T) {
	f := newFixture(t, 0, 3, defaults, nil)
	f.controller.Start()

	if f.controller.State() != Terminated {
		t.Fatalf("expected Terminated, got %v", f.controller.State())
	}
	if len(f.done) != 1 || f.done[0] != nil {
		t.Errorf("expected clean termination, got %v", f.done)
	}
}

func TestLoadFailureTerminatesWithError(t *testing.T) {
	f := newFixture(t, 2, 1, defaults, blankLoader{fail: "b.jpg"})

	f.controller.Start()
	f.controller.OnConfirm()

	if f.controller.State() != Terminated {
		t.Fatalf("expected Terminated, got %v", f.controller.State())
	}
	if len(f.done) != 1 || f.done[0] == nil {
		t.Fatalf("expected termination error, got %v", f.done)
	}
	if f.label(t, "a.jpg") != "1" {
		t.Error("first page should be committed before the failing load")
	}
}
