package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/training-assistant-cli/internal/adapters/ids"
	"github.com/bnema/training-assistant-cli/internal/adapters/render/transcript"
	"github.com/bnema/training-assistant-cli/internal/application"
	"github.com/bnema/training-assistant-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswers struct {
	release chan struct{}
	reply   string
	err     error
}

func (s stubAnswers) Ask(ctx context.Context, _ string) (string, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func newTestModel(t *testing.T, answers stubAnswers, clip func(string) error) (Model, *application.TranscriptStore) {
	t.Helper()

	store := application.NewTranscriptStore()
	dispatcher := application.NewDispatcher(store, answers, ids.NewCounterGenerator("t"), nil)
	m := NewModel(context.Background(), dispatcher, Options{
		Render:    transcript.RenderOptions{},
		Clipboard: clip,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), store
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

// outcomeFrom runs cmd and its batched children until the request outcome
// shows up.
func outcomeFrom(t *testing.T, cmd tea.Cmd) outcomeMsg {
	t.Helper()
	require.NotNil(t, cmd)

	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- next() }()

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("command did not return")
		}

		switch msg := msg.(type) {
		case outcomeMsg:
			return msg
		case tea.BatchMsg:
			pending = append(pending, msg...)
		}
	}

	t.Fatal("no outcome message produced")
	return outcomeMsg{}
}

func TestTypingUpdatesDraft(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{reply: "hi"}, nil)

	m = typeText(t, m, "hel")
	m = typeText(t, m, "lo ")

	assert.Equal(t, "hello ", store.Draft())
	assert.Equal(t, "hello ", m.input.Value())
}

func TestEnterSubmitsAndResolves(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{reply: "hi"}, nil)
	m = typeText(t, m, "hello")

	m, cmd := press(m, tea.KeyEnter)

	assert.Empty(t, m.input.Value())
	assert.Empty(t, store.Draft())
	assert.True(t, store.Pending())
	require.Equal(t, 1, store.Len())
	assert.Contains(t, m.viewport.View(), transcript.ThinkingText)

	updated, _ := m.Update(outcomeFrom(t, cmd))
	m = updated.(Model)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Transcript, 2)
	assert.Equal(t, "hello", snapshot.Transcript[0].Text)
	assert.Equal(t, "hi", snapshot.Transcript[1].Text)
	assert.False(t, snapshot.Pending)
	assert.Contains(t, m.View(), "hi")
	assert.NotContains(t, m.viewport.View(), transcript.ThinkingText)
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{reply: "hi"}, nil)
	m = typeText(t, m, "   ")

	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "   ", m.input.Value())
	assert.False(t, store.Pending())
}

func TestEnterWhilePendingIsRejected(t *testing.T) {
	release := make(chan struct{})
	m, store := newTestModel(t, stubAnswers{reply: "a reply", release: release}, nil)

	m = typeText(t, m, "a")
	m, first := press(m, tea.KeyEnter)
	m = typeText(t, m, "b")
	m, second := press(m, tea.KeyEnter)

	assert.Nil(t, second)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "b", store.Draft())
	assert.Equal(t, "b", m.input.Value())

	close(release)
	updated, _ := m.Update(outcomeFrom(t, first))
	m = updated.(Model)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "b", m.input.Value())
}

func TestFailureShowsErrorAndKeepsUserTurn(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{err: &domain.ServiceError{StatusCode: 500}}, nil)
	m = typeText(t, m, "hello")

	m, cmd := press(m, tea.KeyEnter)
	updated, _ := m.Update(outcomeFrom(t, cmd))
	m = updated.(Model)

	assert.Equal(t, 1, store.Len())
	assert.NotEmpty(t, store.LastError())
	assert.False(t, store.Pending())
	assert.Contains(t, m.viewport.View(), "Error:")
	assert.Contains(t, m.statusLine, string(domain.FailureService))
}

func TestResetDiscardsLateReply(t *testing.T) {
	release := make(chan struct{})
	m, store := newTestModel(t, stubAnswers{reply: "late", release: release}, nil)
	m = typeText(t, m, "hello")
	m, cmd := press(m, tea.KeyEnter)

	m, _ = press(m, tea.KeyCtrlR)
	assert.Equal(t, 0, store.Len())
	assert.True(t, store.Pending())

	close(release)
	updated, _ := m.Update(outcomeFrom(t, cmd))
	m = updated.(Model)

	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Pending())
	assert.Contains(t, m.viewport.View(), transcript.WelcomeLine1)
}

func TestCopyLatestReply(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, stubAnswers{reply: "copy me"}, func(text string) error {
		copied = text
		return nil
	})

	_, cmd := press(m, tea.KeyCtrlY)
	msg := cmd()
	assert.ErrorIs(t, msg.(copiedMsg).err, errNothingToCopy)

	m = typeText(t, m, "hello")
	m, submit := press(m, tea.KeyEnter)
	updated, _ := m.Update(outcomeFrom(t, submit))
	m = updated.(Model)

	m, cmd = press(m, tea.KeyCtrlY)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, "copy me", copied)
	assert.Equal(t, "copied the latest reply", m.statusLine)
}

func TestCopyFailureIsReported(t *testing.T) {
	m, _ := newTestModel(t, stubAnswers{reply: "hi"}, func(string) error {
		return errors.New("no clipboard")
	})
	m = typeText(t, m, "hello")
	m, submit := press(m, tea.KeyEnter)
	updated, _ := m.Update(outcomeFrom(t, submit))
	m = updated.(Model)

	m, cmd := press(m, tea.KeyCtrlY)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, "copy failed: no clipboard", m.statusLine)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, stubAnswers{}, nil)

	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := press(m, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestCloseStopsFollowingStoreChanges(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{reply: "hi"}, nil)
	require.False(t, m.follow.pending)

	m.Close()
	store.AppendTurn(domain.NewUserTurn("late", "hello", time.Now()))

	assert.False(t, m.follow.pending)
}

func TestSpinnerTicksReuseRenderedTurns(t *testing.T) {
	m, store := newTestModel(t, stubAnswers{reply: "hi"}, nil)
	store.AppendTurn(domain.NewAssistantTurn("a-1", "earlier reply", time.Now()))
	m = typeText(t, m, "hello")
	m, _ = press(m, tea.KeyEnter)
	require.True(t, store.Pending())

	rendered := m.renderer.RenderedBlocks()
	for range 5 {
		updated, _ := m.Update(m.spinner.Tick())
		m = updated.(Model)
	}

	assert.Equal(t, rendered, m.renderer.RenderedBlocks())
	assert.Contains(t, m.viewport.View(), transcript.ThinkingText)
}
