package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/training-assistant-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full screen chat and blocks until the user quits.
func Run(ctx context.Context, dispatcher *application.Dispatcher, opts Options, input io.Reader, output io.Writer) error {
	model := NewModel(ctx, dispatcher, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
