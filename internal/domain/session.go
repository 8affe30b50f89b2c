package domain

type Status string

const (
	StatusIdle             Status = "idle"
	StatusAwaitingResponse Status = "awaiting_response"
	StatusErrored          Status = "errored"
)

// SessionState is the in-memory state of one open conversation.
type SessionState struct {
	Transcript []Turn `json:"transcript"`
	Pending    bool   `json:"pending"`
	LastError  string `json:"last_error,omitempty"`
	Draft      string `json:"draft,omitempty"`
	Epoch      uint64 `json:"epoch"`
}

func (s SessionState) Status() Status {
	switch {
	case s.Pending:
		return StatusAwaitingResponse
	case s.LastError != "":
		return StatusErrored
	default:
		return StatusIdle
	}
}

// LastTurnFrom returns the most recent turn with the given origin.
func (s SessionState) LastTurnFrom(origin Origin) (Turn, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Origin == origin {
			return s.Transcript[i], true
		}
	}
	return Turn{}, false
}
