package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const keyHelp = "Click: toggle   Enter: save and next   Esc: quit"

// StatusBar shows the page position, labels written so far and key help.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	pageInfo    *widget.Label
	labelInfo   *widget.Label
	progressBar *widget.ProgressBar
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel(keyHelp)
	sb.pageInfo = widget.NewLabel("Page -/-")
	sb.labelInfo = widget.NewLabel("Labeled: 0")
	sb.progressBar = widget.NewProgressBar()
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewVBox(
		sb.progressBar,
		container.NewHBox(
			sb.pageInfo,
			widget.NewSeparator(),
			sb.labelInfo,
			widget.NewSeparator(),
			sb.statusLabel,
		),
	)
}

// SetPage updates the page counter and the progress bar.
func (sb *StatusBar) SetPage(page, pages, images int) {
	sb.pageInfo.SetText(fmt.Sprintf("Page %d/%d (%d images)", page, pages, images))
	if pages > 0 {
		sb.progressBar.SetValue(float64(page-1) / float64(pages))
	}
}

// SetLabeled updates the count of committed labels.
func (sb *StatusBar) SetLabeled(n int) {
	sb.labelInfo.SetText(fmt.Sprintf("Labeled: %d", n))
}

// SetStatus replaces the help text.
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// PageText returns the page counter text.
func (sb *StatusBar) PageText() string {
	return sb.pageInfo.Text
}

// LabeledText returns the label counter text.
func (sb *StatusBar) LabeledText() string {
	return sb.labelInfo.Text
}

// Status returns the current status message.
func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

// Progress returns the progress bar value.
func (sb *StatusBar) Progress() float64 {
	return sb.progressBar.Value
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// KeyHelp is the default status text.
func KeyHelp() string {
	return keyHelp
}
