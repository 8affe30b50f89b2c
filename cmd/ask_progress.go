package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/training-assistant-cli/internal/adapters/render/transcript"
	"github.com/bnema/training-assistant-cli/internal/application"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type outcomeArrivedMsg struct{}

// askProgress draws a spinner with the time spent waiting until the
// in-flight request delivers its outcome.
type askProgress struct {
	spinner  spinner.Model
	started  time.Time
	now      time.Time
	received bool
}

func newAskProgress(started time.Time) askProgress {
	return askProgress{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		started: started,
		now:     started,
	}
}

func (m askProgress) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m askProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeArrivedMsg:
		m.received = true
		return m, tea.Quit
	case spinner.TickMsg:
		m.now = msg.Time
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m askProgress) View() string {
	if m.received {
		return ""
	}
	waited := m.now.Sub(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s %s", m.spinner.View(), transcript.ThinkingText, waited)
}

// awaitOutcome blocks until req delivers its outcome. A spinner is drawn
// on progress only when it is a terminal.
func awaitOutcome(ctx context.Context, progress io.Writer, req *application.Request) application.Outcome {
	if !isTerminal(progress) {
		return <-req.Done
	}

	p := tea.NewProgram(
		newAskProgress(time.Now()),
		tea.WithInput(nil),
		tea.WithOutput(progress),
		tea.WithContext(ctx),
	)

	arrived := make(chan application.Outcome, 1)
	go func() {
		arrived <- <-req.Done
		p.Send(outcomeArrivedMsg{})
	}()

	// An interrupted program only stops the spinner; the request still
	// reports how it ended.
	_, _ = p.Run()
	return <-arrived
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
