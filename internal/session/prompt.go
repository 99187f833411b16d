package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"grid-labeler/internal/logger"

	"fyne.io/fyne/v2"
)

// ConsolePrompter asks on a terminal. Reading happens off the UI
// goroutine and the answer is handed back through dispatch.
type ConsolePrompter struct {
	in       *bufio.Reader
	out      io.Writer
	dispatch func(func())
	logger   logger.Logger
}

// NewConsolePrompter reads answers from in and writes questions to out.
func NewConsolePrompter(in io.Reader, out io.Writer, log logger.Logger) *ConsolePrompter {
	return &ConsolePrompter{
		in:       bufio.NewReader(in),
		out:      out,
		dispatch: fyne.Do,
		logger:   log,
	}
}

// Confirm repeats question until it reads y or n. End of input counts as n.
func (p *ConsolePrompter) Confirm(question string, answer func(bool)) {
	go func() {
		result := p.ask(question)
		p.dispatch(func() { answer(result) })
	}()
}

func (p *ConsolePrompter) ask(question string) bool {
	for {
		fmt.Fprint(p.out, question)
		line, err := p.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n":
			return false
		}
		if err != nil {
			p.logger.Warning(component, "prompt input closed, discarding page", map[string]interface{}{
				"error": err.Error(),
			})
			return false
		}
	}
}
