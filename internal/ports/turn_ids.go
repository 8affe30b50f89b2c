package ports

import "github.com/bnema/training-assistant-cli/internal/domain"

type TurnIDGenerator interface {
	NewTurnID() domain.TurnID
}
