package application

import (
	"sync"

	"github.com/bnema/training-assistant-cli/internal/domain"
)

type ChangeKind string

const (
	ChangeTurnAppended ChangeKind = "turn_appended"
	ChangePending      ChangeKind = "pending"
	ChangeError        ChangeKind = "error"
	ChangeDraft        ChangeKind = "draft"
	ChangeReset        ChangeKind = "reset"
)

// Change describes one mutation of the session state. Turn is only set for
// ChangeTurnAppended.
type Change struct {
	Kind  ChangeKind
	Turn  domain.Turn
	State domain.SessionState
}

type Listener func(Change)

// TranscriptStore owns the session state of one conversation. It is the
// only place the state is mutated.
type TranscriptStore struct {
	mu        sync.RWMutex
	state     domain.SessionState
	listeners []listenerEntry
	nextSubID int
}

type listenerEntry struct {
	id int
	fn Listener
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{}
}

func (s *TranscriptStore) AppendTurn(turn domain.Turn) {
	s.mu.Lock()
	s.state.Transcript = append(s.state.Transcript, turn)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeTurnAppended, Turn: turn})
}

// SetPending sets the in-flight flag. Setting true while a request is already
// pending is rejected and reported by returning false.
func (s *TranscriptStore) SetPending(flag bool) bool {
	s.mu.Lock()
	if flag && s.state.Pending {
		s.mu.Unlock()
		return false
	}
	changed := s.state.Pending != flag
	s.state.Pending = flag
	s.mu.Unlock()

	if changed {
		s.notify(Change{Kind: ChangePending})
	}
	return true
}

// SetError replaces the last error. An empty message clears it.
func (s *TranscriptStore) SetError(message string) {
	s.mu.Lock()
	changed := s.state.LastError != message
	s.state.LastError = message
	s.mu.Unlock()

	if changed {
		s.notify(Change{Kind: ChangeError})
	}
}

func (s *TranscriptStore) UpdateDraft(text string) {
	s.mu.Lock()
	changed := s.state.Draft != text
	s.state.Draft = text
	s.mu.Unlock()

	if changed {
		s.notify(Change{Kind: ChangeDraft})
	}
}

// Reset clears the transcript, the last error and the draft, and starts a new
// epoch. A pending request stays pending; its result is reconciled against
// the new epoch when it arrives.
func (s *TranscriptStore) Reset() {
	s.mu.Lock()
	s.state.Transcript = nil
	s.state.LastError = ""
	s.state.Draft = ""
	s.state.Epoch++
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReset})
}

func (s *TranscriptStore) Snapshot() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *TranscriptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.state.Transcript)
}

func (s *TranscriptStore) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Pending
}

func (s *TranscriptStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.LastError
}

func (s *TranscriptStore) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Draft
}

func (s *TranscriptStore) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Epoch
}

// Subscribe registers a listener called after every mutation, in
// subscription order. The returned func removes it.
func (s *TranscriptStore) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *TranscriptStore) notify(change Change) {
	s.mu.RLock()
	if len(s.listeners) == 0 {
		s.mu.RUnlock()
		return
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, entry := range s.listeners {
		listeners = append(listeners, entry.fn)
	}
	change.State = s.snapshotLocked()
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

func (s *TranscriptStore) snapshotLocked() domain.SessionState {
	snapshot := s.state
	if len(s.state.Transcript) > 0 {
		snapshot.Transcript = make([]domain.Turn, len(s.state.Transcript))
		copy(snapshot.Transcript, s.state.Transcript)
	} else {
		snapshot.Transcript = []domain.Turn{}
	}
	return snapshot
}
