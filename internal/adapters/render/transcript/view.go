package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	Title        = "Training Assistant"
	WelcomeLine1 = "Hi! I'm your training assistant."
	WelcomeLine2 = "Ask me questions about cybersecurity, email security, or any training topics."
	ThinkingText = "Thinking..."
)

type RenderOptions struct {
	// Width wraps turn text when positive.
	Width int
	// Markdown renders assistant turns through glamour using MarkdownStyle.
	Markdown      bool
	MarkdownStyle string
	// Spinner is drawn in front of the thinking indicator.
	Spinner string
	// HideHeader drops the title and status lines.
	HideHeader     bool
	ShowTimestamps bool
}

// View renders the session state as it is shown to the user.
func View(state domain.SessionState, opts RenderOptions) string {
	return NewRenderer().View(state, opts)
}

// Renderer renders session states and keeps the rendered block of every
// turn it has seen. Turns never change, so a block is only rebuilt when
// the layout options change. A Renderer is not safe for concurrent use.
type Renderer struct {
	styles styles

	md    *glamour.TermRenderer
	mdKey markdownKey

	blocks map[blockKey]string
	misses int
}

type markdownKey struct {
	enabled bool
	style   string
	width   int
}

type blockKey struct {
	id         domain.TurnID
	width      int
	markdown   markdownKey
	timestamps bool
}

func NewRenderer() *Renderer {
	return &Renderer{
		styles: newStyles(),
		blocks: make(map[blockKey]string),
	}
}

func (r *Renderer) View(state domain.SessionState, opts RenderOptions) string {
	s := r.styles
	lines := make([]string, 0, len(state.Transcript)+4)
	if !opts.HideHeader {
		lines = append(lines,
			s.title.Render(Title),
			s.header.Render(fmt.Sprintf("turns: %d · status: %s", len(state.Transcript), statusLabel(state.Status()))),
		)
	}

	if len(state.Transcript) == 0 {
		lines = append(lines, s.turn.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.welcome.Render(WelcomeLine1),
			s.welcome.Render(wrap(WelcomeLine2, opts.Width)),
		)))
	}

	// Blocks of turns that left the transcript are dropped.
	kept := make(map[blockKey]string, len(state.Transcript))
	for _, turn := range state.Transcript {
		key := r.keyFor(turn, opts)
		block, ok := r.blocks[key]
		if !ok {
			r.misses++
			block = s.turn.Render(r.renderTurn(turn, opts))
		}
		kept[key] = block
		lines = append(lines, block)
	}
	r.blocks = kept

	if state.Pending {
		indicator := ThinkingText
		if opts.Spinner != "" {
			indicator = opts.Spinner + " " + indicator
		}
		lines = append(lines, s.turn.Render(s.thinking.Render(indicator)))
	}

	if state.LastError != "" {
		lines = append(lines, s.turn.Render(s.errorText.Render(wrap("Error: "+state.LastError, opts.Width))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderedBlocks is how many turn blocks were built instead of reused.
func (r *Renderer) RenderedBlocks() int {
	return r.misses
}

func (r *Renderer) keyFor(turn domain.Turn, opts RenderOptions) blockKey {
	return blockKey{
		id:         turn.ID,
		width:      opts.Width,
		markdown:   markdownKeyOf(opts),
		timestamps: opts.ShowTimestamps,
	}
}

func (r *Renderer) renderTurn(turn domain.Turn, opts RenderOptions) string {
	s := r.styles
	label := s.user.Render("You")
	if turn.Origin == domain.OriginAssistant {
		label = s.assistant.Render("Assistant")
	}
	if opts.ShowTimestamps && !turn.CreatedAt.IsZero() {
		label += " " + s.timestamp.Render(turn.CreatedAt.Local().Format(time.Kitchen))
	}

	body := s.body.Render(wrap(turn.Text, opts.Width))
	if turn.Origin == domain.OriginAssistant {
		if md := r.markdown(opts); md != nil {
			if rendered, err := md.Render(turn.Text); err == nil {
				body = strings.Trim(rendered, "\n")
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}

// markdown returns the glamour renderer for opts, building a new one only
// when the style or width changed.
func (r *Renderer) markdown(opts RenderOptions) *glamour.TermRenderer {
	key := markdownKeyOf(opts)
	if !key.enabled {
		return nil
	}
	if r.md != nil && r.mdKey == key {
		return r.md
	}

	renderOpts := []glamour.TermRendererOption{glamour.WithStandardStyle(key.style)}
	if key.width > 0 {
		renderOpts = append(renderOpts, glamour.WithWordWrap(key.width))
	}

	md, err := glamour.NewTermRenderer(renderOpts...)
	if err != nil {
		return nil
	}
	r.md = md
	r.mdKey = key
	return md
}

func markdownKeyOf(opts RenderOptions) markdownKey {
	if !opts.Markdown {
		return markdownKey{}
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	return markdownKey{enabled: true, style: style, width: opts.Width}
}

func statusLabel(status domain.Status) string {
	switch status {
	case domain.StatusAwaitingResponse:
		return "waiting for reply"
	case domain.StatusErrored:
		return "error"
	default:
		return "idle"
	}
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
