// Package agent defines the decision-making contract the Game Driver
// consults at every branch point, plus two reference implementations
// sufficient to exercise the contract end to end. Neither
// implementation is MCTS-quality; they exist to drive and test the
// engine, not to play well.
package agent

import (
	"math/rand"

	"github.com/signalnine/pokebattle/pkg/action"
	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

// Agent is consulted once per decision point (top-level turn or a
// routed sub-decision). It must be synchronous and side-effect free
// on s; any randomness it needs must come from rng so that a supplied
// match seed fully determines the outcome.
type Agent interface {
	Decide(rng *rand.Rand, s *state.State, legal []action.Action) action.Action
	Deck() []catalog.Card
}

// RandomAgent picks uniformly among the legal actions.
type RandomAgent struct {
	deck []catalog.Card
}

// NewRandomAgent returns an Agent whose Deck() is deck.
func NewRandomAgent(deck []catalog.Card) *RandomAgent {
	return &RandomAgent{deck: deck}
}

func (a *RandomAgent) Deck() []catalog.Card { return a.deck }

func (a *RandomAgent) Decide(rng *rand.Rand, _ *state.State, legal []action.Action) action.Action {
	return legal[rng.Intn(len(legal))]
}

// GreedyAgent scores each legal action by a fixed priority table
// (attack for max damage, then evolve, then place/attach/play, then
// retreat, then end turn), breaking ties uniformly at random.
type GreedyAgent struct {
	deck []catalog.Card
}

// NewGreedyAgent returns an Agent whose Deck() is deck.
func NewGreedyAgent(deck []catalog.Card) *GreedyAgent {
	return &GreedyAgent{deck: deck}
}

func (a *GreedyAgent) Deck() []catalog.Card { return a.deck }

func (a *GreedyAgent) Decide(rng *rand.Rand, s *state.State, legal []action.Action) action.Action {
	best := legal[0]
	bestScore := -1
	var tied []action.Action
	for _, act := range legal {
		score := a.score(s, act)
		switch {
		case score > bestScore:
			bestScore = score
			best = act
			tied = tied[:0]
			tied = append(tied, act)
		case score == bestScore:
			tied = append(tied, act)
		}
	}
	if len(tied) == 0 {
		return best
	}
	return tied[rng.Intn(len(tied))]
}

func (a *GreedyAgent) score(s *state.State, act action.Action) int {
	switch act.Kind {
	case state.ActionAttack:
		return 100 + a.attackDamage(s, act)
	case state.ActionEvolve:
		return 90
	case state.ActionPlace:
		return 80
	case state.ActionAttach:
		return 70
	case state.ActionUseAbility:
		return 60
	case state.ActionPlay:
		return 50
	case state.ActionAttachTool:
		return 40
	case state.ActionRetreat:
		return 10
	case state.ActionEndTurn:
		return 0
	default:
		return 5
	}
}

func (a *GreedyAgent) attackDamage(s *state.State, act action.Action) int {
	active := s.GetActive(act.Actor)
	if active == nil || act.AttackIndex >= len(active.Underlying.Pokemon.Attacks) {
		return 0
	}
	return active.Underlying.Pokemon.Attacks[act.AttackIndex].Damage
}
