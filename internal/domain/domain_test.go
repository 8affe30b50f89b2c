package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnConstructorsSetOrigin(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	user := NewUserTurn("u-1", "  hello ", now)
	assistant := NewAssistantTurn("a-1", "hi", now)

	assert.Equal(t, OriginUser, user.Origin)
	assert.Equal(t, "  hello ", user.Text)
	assert.Equal(t, now, user.CreatedAt)
	assert.Equal(t, OriginAssistant, assistant.Origin)
	assert.Equal(t, TurnID("a-1"), assistant.ID)
}

func TestSessionStateStatus(t *testing.T) {
	assert.Equal(t, StatusIdle, SessionState{}.Status())
	assert.Equal(t, StatusErrored, SessionState{LastError: "boom"}.Status())
	assert.Equal(t, StatusAwaitingResponse, SessionState{Pending: true, LastError: "boom"}.Status())
}

func TestSessionStateLastTurnFrom(t *testing.T) {
	state := SessionState{Transcript: []Turn{
		{ID: "1", Origin: OriginUser, Text: "a"},
		{ID: "2", Origin: OriginAssistant, Text: "b"},
		{ID: "3", Origin: OriginUser, Text: "c"},
	}}

	turn, ok := state.LastTurnFrom(OriginAssistant)
	assert.True(t, ok)
	assert.Equal(t, TurnID("2"), turn.ID)

	_, ok = SessionState{}.LastTurnFrom(OriginUser)
	assert.False(t, ok)
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "nil", err: nil, want: FailureNone},
		{name: "transport", err: fmt.Errorf("post chat: %w", ErrTransportFailure), want: FailureTransport},
		{name: "service", err: &ServiceError{StatusCode: 500}, want: FailureService},
		{name: "wrapped service", err: fmt.Errorf("ask: %w", &ServiceError{StatusCode: 502}), want: FailureService},
		{name: "malformed", err: fmt.Errorf("decode: %w", ErrMalformedResponse), want: FailureMalformedResponse},
		{name: "unknown", err: errors.New("weird"), want: FailureTransport},
		{name: "canceled", err: context.Canceled, want: FailureTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestServiceErrorMessage(t *testing.T) {
	assert.Equal(t, "service failure: status 500", (&ServiceError{StatusCode: 500}).Error())
	assert.Equal(t, "service failure: status 500: Chat error: boom", (&ServiceError{StatusCode: 500, Detail: "Chat error: boom"}).Error())
}

func TestFailureKindUserMessage(t *testing.T) {
	assert.Empty(t, FailureNone.UserMessage())
	for _, kind := range []FailureKind{FailureTransport, FailureService, FailureMalformedResponse} {
		assert.NotEmpty(t, kind.UserMessage(), string(kind))
	}
}
