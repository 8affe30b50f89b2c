package tui

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/bnema/training-assistant-cli/internal/adapters/render/transcript"
	"github.com/bnema/training-assistant-cli/internal/application"
	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	inputPlaceholder = "Ask a question..."
	inputCharLimit   = 4000
	chromeHeight     = 3
)

var errNothingToCopy = errors.New("no assistant reply to copy yet")

type outcomeMsg struct {
	outcome application.Outcome
}

type copiedMsg struct {
	err error
}

type Options struct {
	Render transcript.RenderOptions
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// followState is shared by every copy of the model so the store listener
// can ask the next refresh to scroll to the latest turn.
type followState struct {
	pending bool
}

type Model struct {
	ctx        context.Context
	dispatcher *application.Dispatcher
	store      *application.TranscriptStore

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	renderer    *transcript.Renderer
	renderOpts  transcript.RenderOptions
	clipboard   func(string) error
	follow      *followState
	unsubscribe func()

	statusLine string
	width      int
	height     int
}

func NewModel(ctx context.Context, dispatcher *application.Dispatcher, opts Options) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = inputPlaceholder
	input.CharLimit = inputCharLimit
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	follow := &followState{pending: true}
	store := dispatcher.Store()
	unsubscribe := store.Subscribe(func(change application.Change) {
		if change.Kind == application.ChangeTurnAppended || change.Kind == application.ChangeReset {
			follow.pending = true
		}
	})

	m := Model{
		ctx:         ctx,
		dispatcher:  dispatcher,
		store:       store,
		input:       input,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		renderer:    transcript.NewRenderer(),
		renderOpts:  opts.Render,
		clipboard:   clip,
		follow:      follow,
		unsubscribe: unsubscribe,
		statusLine:  helpText,
	}
	m.input.SetValue(store.Draft())
	m.refresh()
	return m
}

// Close detaches the model from the store.
func (m Model) Close() {
	m.unsubscribe()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
	case outcomeMsg:
		resolution := m.dispatcher.Resolve(msg.outcome)
		m.statusLine = resolutionStatus(resolution)
		m.refresh()
	case copiedMsg:
		if msg.err != nil {
			m.statusLine = "copy failed: " + msg.err.Error()
		} else {
			m.statusLine = "copied the latest reply"
		}
	case spinner.TickMsg:
		if !m.store.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "ctrl+r":
			m.dispatcher.Reset()
			m.input.SetValue("")
			m.statusLine = "conversation cleared"
			m.refresh()
			return m, nil
		case "ctrl+y":
			return m, m.copyLatestReply()
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.store.UpdateDraft(m.input.Value())
		cmds = append(cmds, cmd)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.dispatcher.Submit(m.ctx, m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.SetValue("")
	m.statusLine = helpText
	m.refresh()

	return m, tea.Batch(waitForOutcome(req), m.spinner.Tick)
}

func (m Model) copyLatestReply() tea.Cmd {
	turn, ok := m.store.Snapshot().LastTurnFrom(domain.OriginAssistant)
	clip := m.clipboard
	return func() tea.Msg {
		if !ok {
			return copiedMsg{err: errNothingToCopy}
		}
		return copiedMsg{err: clip(turn.Text)}
	}
}

func waitForOutcome(req *application.Request) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: <-req.Done}
	}
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chromeHeight, 1)
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 1)
}

func (m *Model) refresh() {
	opts := m.renderOpts
	opts.Width = m.viewport.Width
	if m.store.Pending() {
		opts.Spinner = m.spinner.View()
	}

	m.viewport.SetContent(m.renderer.View(m.store.Snapshot(), opts))
	if m.follow.pending {
		m.viewport.GotoBottom()
		m.follow.pending = false
	}
}

func resolutionStatus(resolution application.Resolution) string {
	switch resolution.Kind {
	case application.ResolutionFailed:
		return "request failed (" + string(resolution.Failure) + ")"
	case application.ResolutionDiscarded:
		return "ignored a reply from the cleared conversation"
	default:
		return helpText
	}
}
