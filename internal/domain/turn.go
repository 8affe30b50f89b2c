package domain

import "time"

type TurnID string

type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Turn is one message of the transcript. It is a value: once built it is
// never changed, so an assistant turn only exists after its reply resolved.
type Turn struct {
	ID        TurnID    `json:"id"`
	Origin    Origin    `json:"origin"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserTurn(id TurnID, text string, createdAt time.Time) Turn {
	return Turn{ID: id, Origin: OriginUser, Text: text, CreatedAt: createdAt}
}

func NewAssistantTurn(id TurnID, text string, createdAt time.Time) Turn {
	return Turn{ID: id, Origin: OriginAssistant, Text: text, CreatedAt: createdAt}
}
