package ports

import "context"

// AnswerService sends one user message to the remote answering service and
// returns the reply text. Errors wrap one of the domain failure sentinels.
type AnswerService interface {
	Ask(ctx context.Context, message string) (string, error)
}

type HealthChecker interface {
	Health(ctx context.Context) error
}
