// Package session drives the labeling loop: it shows pages, toggles cells
// on click, and writes labels back to the catalog.
package session

import (
	"context"
	"fmt"

	"grid-labeler/internal/catalog"
	"grid-labeler/internal/gui"
	"grid-labeler/internal/logger"
	"grid-labeler/internal/pager"
)

const (
	component = "Session"

	// SaveQuestion is asked when the operator cancels mid-page.
	SaveQuestion = "Do you want to save this set of images? (y/n) "
)

// State is the controller's position in the labeling loop.
type State int

const (
	AwaitingFirstPage State = iota
	ShowingPage
	AwaitingConfirmation
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingFirstPage:
		return "awaiting_first_page"
	case ShowingPage:
		return "showing_page"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Display is the grid the controller paints pages onto.
type Display interface {
	ShowPage(paths []string) error
	Toggle(index int)
	Cells() []gui.CellState
}

// Prompter asks a yes/no question and reports the answer later on the
// UI goroutine.
type Prompter interface {
	Confirm(question string, answer func(bool))
}

// Options maps cell visibility to labels.
type Options struct {
	PositiveLabel string
	NegativeLabel string
	HidePositive  bool
}

// LabelFor returns the label for a cell that is visible or hidden at
// commit time. By default visible means positive; HidePositive inverts it.
func (o Options) LabelFor(visible bool) string {
	if visible != o.HidePositive {
		return o.PositiveLabel
	}
	return o.NegativeLabel
}

// Progress describes the page on screen.
type Progress struct {
	Page    int
	Pages   int
	Images  int
	Labeled int
}

// Controller owns the session state. All methods must be called from the
// UI goroutine.
type Controller struct {
	ctx      context.Context
	store    *catalog.Store
	pages    *pager.Pager[string]
	display  Display
	prompter Prompter
	options  Options
	logger   logger.Logger

	state   State
	current []string
	labeled int

	onProgress func(Progress)
	onDone     func(error)
}

// NewController wires a controller over an unlabeled snapshot.
func NewController(
	ctx context.Context,
	store *catalog.Store,
	pages *pager.Pager[string],
	display Display,
	prompter Prompter,
	options Options,
	log logger.Logger,
) *Controller {
	return &Controller{
		ctx:      ctx,
		store:    store,
		pages:    pages,
		display:  display,
		prompter: prompter,
		options:  options,
		logger:   log,
		state:    AwaitingFirstPage,
	}
}

// SetOnProgress registers a callback fired after each page is shown.
func (c *Controller) SetOnProgress(fn func(Progress)) {
	c.onProgress = fn
}

// SetOnDone registers the termination callback. err is nil on a clean exit.
func (c *Controller) SetOnDone(fn func(error)) {
	c.onDone = fn
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Labeled counts labels committed during this session.
func (c *Controller) Labeled() int {
	return c.labeled
}

// Start shows the first page. Nothing is committed because no page was
// on screen before.
func (c *Controller) Start() {
	if c.state != AwaitingFirstPage {
		return
	}
	c.logger.Info(component, "labeling session started", map[string]interface{}{
		"pages":     c.pages.Pages(),
		"page_size": c.pages.Size(),
	})
	c.advance()
}

// OnClick toggles the cell at index.
func (c *Controller) OnClick(index int) {
	if c.state != ShowingPage {
		return
	}
	c.display.Toggle(index)
}

// OnConfirm commits the labels of the page on screen and shows the next
// one, or terminates when the snapshot is exhausted.
func (c *Controller) OnConfirm() {
	if c.state != ShowingPage {
		return
	}
	if err := c.commitPage(); err != nil {
		c.terminate(fmt.Errorf("commit page %d: %w", c.pages.Served(), err))
		return
	}
	c.advance()
}

// OnCancel asks whether to keep the page on screen and then terminates.
func (c *Controller) OnCancel() {
	if c.state != ShowingPage {
		return
	}
	c.state = AwaitingConfirmation
	c.prompter.Confirm(SaveQuestion, c.resolveCancel)
}

func (c *Controller) resolveCancel(save bool) {
	if c.state != AwaitingConfirmation {
		return
	}
	if !save {
		c.logger.Info(component, "page discarded", map[string]interface{}{
			"images": len(c.current),
		})
		c.terminate(nil)
		return
	}
	if err := c.commitPage(); err != nil {
		c.terminate(fmt.Errorf("commit page %d: %w", c.pages.Served(), err))
		return
	}
	c.terminate(nil)
}

func (c *Controller) advance() {
	page, ok := c.pages.Next()
	if !ok {
		c.logger.Info(component, "No more unlabeled images.", map[string]interface{}{
			"labeled": c.labeled,
		})
		c.terminate(nil)
		return
	}

	if err := c.display.ShowPage(page); err != nil {
		c.terminate(fmt.Errorf("show page %d: %w", c.pages.Served(), err))
		return
	}
	c.current = page
	c.state = ShowingPage

	if c.onProgress != nil {
		c.onProgress(Progress{
			Page:    c.pages.Served(),
			Pages:   c.pages.Pages(),
			Images:  len(page),
			Labeled: c.labeled,
		})
	}
}

// commitPage writes one label per occupied cell inside a single batch.
func (c *Controller) commitPage() error {
	batch, err := c.store.BeginBatch(c.ctx)
	if err != nil {
		return err
	}
	defer batch.Rollback()

	for _, cell := range c.display.Cells() {
		if cell.Path == "" {
			continue
		}
		if err := batch.SetLabel(c.ctx, cell.Path, c.options.LabelFor(cell.Visible)); err != nil {
			return err
		}
	}

	if err := batch.Commit(); err != nil {
		return err
	}
	c.labeled += batch.Len()
	c.logger.Debug(component, "page committed", map[string]interface{}{
		"labels": batch.Len(),
	})
	return nil
}

func (c *Controller) terminate(err error) {
	c.state = Terminated
	if err != nil {
		c.logger.Error(component, "labeling session aborted", err, map[string]interface{}{"labeled": c.labeled})
	}
	if c.onDone != nil {
		c.onDone(err)
	}
}
