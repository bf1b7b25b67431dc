package router

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/aalemi-dev/dynamic-datasource/datasource"
)

// Strategy picks one member of a group. candidates is never empty and is
// ordered by name.
type Strategy interface {
	Determine(group string, candidates []datasource.DataSource) datasource.DataSource
}

// LoadBalanceStrategy cycles through the candidates.
type LoadBalanceStrategy struct {
	next atomic.Uint64
}

// Determine returns the candidates in turn.
func (s *LoadBalanceStrategy) Determine(_ string, candidates []datasource.DataSource) datasource.DataSource {
	n := s.next.Add(1) - 1
	return candidates[n%uint64(len(candidates))]
}

// RandomStrategy picks a candidate uniformly at random.
type RandomStrategy struct{}

// Determine returns a uniformly random candidate.
func (RandomStrategy) Determine(_ string, candidates []datasource.DataSource) datasource.DataSource {
	return candidates[rand.IntN(len(candidates))]
}

// Strategy names accepted by StrategyByName.
const (
	StrategyLoadBalance = "loadbalance"
	StrategyRandom      = "random"
)

// StrategyByName maps a configured name to a Strategy. The empty name is
// load balancing.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategyLoadBalance:
		return &LoadBalanceStrategy{}, nil
	case StrategyRandom:
		return RandomStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
