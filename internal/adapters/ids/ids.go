package ids

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/bnema/training-assistant-cli/internal/domain"
	"github.com/bnema/training-assistant-cli/internal/ports"
	"github.com/google/uuid"
)

const (
	StrategyUUID    = "uuid"
	StrategyCounter = "counter"
)

var (
	_ ports.TurnIDGenerator = UUIDGenerator{}
	_ ports.TurnIDGenerator = (*CounterGenerator)(nil)
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewTurnID() domain.TurnID {
	return domain.TurnID(uuid.NewString())
}

// CounterGenerator hands out "turn-1", "turn-2", ... in call order.
type CounterGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewCounterGenerator(prefix string) *CounterGenerator {
	if prefix == "" {
		prefix = "turn"
	}
	return &CounterGenerator{prefix: prefix}
}

func (g *CounterGenerator) NewTurnID() domain.TurnID {
	return domain.TurnID(g.prefix + "-" + strconv.FormatUint(g.next.Add(1), 10))
}

func New(strategy string) (ports.TurnIDGenerator, error) {
	switch strategy {
	case "", StrategyUUID:
		return UUIDGenerator{}, nil
	case StrategyCounter:
		return NewCounterGenerator(""), nil
	default:
		return nil, fmt.Errorf("unknown turn id strategy %q", strategy)
	}
}
