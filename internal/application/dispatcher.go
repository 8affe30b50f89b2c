package application

import (
	"context"
	"errors"
	"strings"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports"
	"github.com/rs/zerolog"
)

// ErrSubmissionRejected is returned by Ask when the guard refused the
// message (blank text or a request already in flight). Submit reports the
// same condition silently.
var ErrSubmissionRejected = errors.New("submission rejected")

// Request is one outbound question. Done receives exactly one Outcome and is
// then closed.
type Request struct {
	TurnID  domain.TurnID
	Epoch   uint64
	Message string
	Done    <-chan Outcome
}

type Outcome struct {
	TurnID domain.TurnID
	Epoch  uint64
	Reply  string
	Err    error
}

type ResolutionKind string

const (
	ResolutionAnswered  ResolutionKind = "answered"
	ResolutionFailed    ResolutionKind = "failed"
	ResolutionDiscarded ResolutionKind = "discarded"
)

type Resolution struct {
	Kind    ResolutionKind
	Turn    domain.Turn
	Failure domain.FailureKind
	Err     error
}

// Dispatcher drives the submit, request and resolve cycle of a turn against
// a TranscriptStore.
type Dispatcher struct {
	store        *TranscriptStore
	answers      ports.AnswerService
	ids          ports.TurnIDGenerator
	clock        ports.Clock
	logger       zerolog.Logger
	discardStale bool
}

type DispatcherOption func(*Dispatcher)

func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithStaleDiscard controls whether replies issued before a Reset are
// dropped. Disabling it lets a late reply land in the cleared transcript.
func WithStaleDiscard(enabled bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.discardStale = enabled
	}
}

func NewDispatcher(store *TranscriptStore, answers ports.AnswerService, ids ports.TurnIDGenerator, clock ports.Clock, opts ...DispatcherOption) *Dispatcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	d := &Dispatcher{
		store:        store,
		answers:      answers,
		ids:          ids,
		clock:        clock,
		logger:       zerolog.Nop(),
		discardStale: true,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) Store() *TranscriptStore {
	return d.store
}

// Submit validates rawText and, when accepted, appends the user turn, marks
// the session pending and starts the outbound request. It returns false
// without touching the session when the text is blank or a request is
// already in flight.
func (d *Dispatcher) Submit(ctx context.Context, rawText string) (*Request, bool) {
	if strings.TrimSpace(rawText) == "" {
		return nil, false
	}
	if !d.store.SetPending(true) {
		d.logger.Debug().Msg("submission rejected: request already pending")
		return nil, false
	}

	turn := domain.NewUserTurn(d.ids.NewTurnID(), rawText, d.clock.Now())
	d.store.AppendTurn(turn)
	d.store.UpdateDraft("")
	d.store.SetError("")

	epoch := d.store.Epoch()
	d.logger.Debug().
		Str("turn_id", string(turn.ID)).
		Uint64("epoch", epoch).
		Int("length", len(rawText)).
		Msg("submitting turn")

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		reply, err := d.answers.Ask(ctx, rawText)
		done <- Outcome{TurnID: turn.ID, Epoch: epoch, Reply: reply, Err: err}
	}()

	return &Request{TurnID: turn.ID, Epoch: epoch, Message: rawText, Done: done}, true
}

// Resolve reconciles the store with the outcome of a request. It must be
// called from the same loop that calls Submit and Reset.
func (d *Dispatcher) Resolve(outcome Outcome) Resolution {
	defer d.store.SetPending(false)

	if d.discardStale && outcome.Epoch != d.store.Epoch() {
		d.logger.Info().
			Str("turn_id", string(outcome.TurnID)).
			Uint64("request_epoch", outcome.Epoch).
			Uint64("session_epoch", d.store.Epoch()).
			Msg("discarding reply for a reset session")
		return Resolution{Kind: ResolutionDiscarded, Err: outcome.Err}
	}

	if outcome.Err != nil {
		kind := domain.ClassifyFailure(outcome.Err)
		d.logger.Warn().
			Err(outcome.Err).
			Str("turn_id", string(outcome.TurnID)).
			Str("failure_kind", string(kind)).
			Msg("turn failed")
		d.store.SetError(kind.UserMessage())
		return Resolution{Kind: ResolutionFailed, Failure: kind, Err: outcome.Err}
	}

	turn := domain.NewAssistantTurn(d.ids.NewTurnID(), outcome.Reply, d.clock.Now())
	d.store.AppendTurn(turn)
	d.logger.Debug().
		Str("turn_id", string(turn.ID)).
		Str("reply_to", string(outcome.TurnID)).
		Msg("turn answered")

	return Resolution{Kind: ResolutionAnswered, Turn: turn}
}

// Ask runs one full cycle and blocks until the reply is reconciled. The
// answering service is expected to honor ctx.
func (d *Dispatcher) Ask(ctx context.Context, rawText string) (Resolution, error) {
	req, ok := d.Submit(ctx, rawText)
	if !ok {
		return Resolution{}, ErrSubmissionRejected
	}

	return d.Resolve(<-req.Done), nil
}

func (d *Dispatcher) Reset() {
	d.store.Reset()
	d.logger.Debug().
		Uint64("epoch", d.store.Epoch()).
		Bool("pending", d.store.Pending()).
		Msg("session reset")
}
