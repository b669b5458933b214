// Package driver runs the main play loop: initial setup, the opening
// placement phase, the turn loop and its move-generation stack, and
// terminal detection.
package driver

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/signalnine/pokebattle/internal/tlog"
	"github.com/signalnine/pokebattle/pkg/action"
	"github.com/signalnine/pokebattle/pkg/agent"
	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/movegen"
	"github.com/signalnine/pokebattle/pkg/simulation"
	"github.com/signalnine/pokebattle/pkg/state"
)

// maxTurns is the turn-limit draw threshold.
const maxTurns = 100

// PlayMatch runs one match to completion between a (player 0) and b
// (player 1): initializes a fresh State from each agent's declared
// deck, runs the opening placement phase, then the main turn loop
// until IsGameOver, consulting whichever agent a pushed sub-decision
// (or the turn owner) is routed to at each decision point. Returns the
// terminal outcome and the final State; a non-nil error means a rule
// violation was detected at commit and the match was aborted.
func PlayMatch(a, b agent.Agent, rng *rand.Rand) (*state.Outcome, *state.State, error) {
	// matchID is a correlation handle only, so the one aborted run in
	// a large self-play batch can be found in its logs; it is never
	// read by game logic.
	matchID := uuid.New()

	s := state.New(deckFromAgent(a), deckFromAgent(b))
	s.Initialize(rng)
	agents := [2]agent.Agent{a, b}

	if err := runOpeningPhase(s, agents, rng); err != nil {
		return nil, s, fmt.Errorf("match %s: %w", matchID, err)
	}

	// The starting player does not draw on their first turn, but
	// their energy is generated.
	s.TurnCount = 1
	s.GenerateEnergy(s.CurrentPlayer, rng)
	tlog.LogMatch("[%s] opening complete: player %d to act on turn %d", matchID, s.CurrentPlayer, s.TurnCount)

	for !s.IsGameOver() {
		if err := step(s, agents, rng); err != nil {
			tlog.LogMatch("[%s] match aborted: %v\nstate: %s", matchID, err, dumpState(s))
			return nil, s, fmt.Errorf("match %s: %w", matchID, err)
		}
	}

	outcome := finalizeOutcome(s)
	tlog.LogMatch("[%s] match over: %s after %d turns", matchID, outcomeString(outcome), s.TurnCount)
	return outcome, s, nil
}

// step resolves exactly one decision: the top of the move-generation
// stack if non-empty, otherwise a fresh top-level Move Generator call
// for the turn owner (invariant 7).
func step(s *state.State, agents [2]agent.Agent, rng *rand.Rand) error {
	if frame, ok := s.PopSubDecision(); ok {
		if len(frame.Actions) == 0 {
			// No legal reply to the sub-decision: it is dropped and
			// control returns to the turn owner.
			return nil
		}
		choice := agents[frame.Actor].Decide(rng, s, frame.Actions)
		return action.SafeCommit(rng, s, choice)
	}

	actor := s.CurrentPlayer
	legal := movegen.GenerateActions(s)
	choice := agents[actor].Decide(rng, s, legal)
	return action.SafeCommit(rng, s, choice)
}

// finalizeOutcome returns s.Winner if the match ended by knockout or
// point target, or computes and records the turn-limit tiebreak
// (higher Points wins, equal Points ties) otherwise.
func finalizeOutcome(s *state.State) *state.Outcome {
	if s.Winner != nil {
		return s.Winner
	}
	var outcome state.Outcome
	switch {
	case s.Points[0] > s.Points[1]:
		outcome = state.Outcome{Player: 0}
	case s.Points[1] > s.Points[0]:
		outcome = state.Outcome{Player: 1}
	default:
		outcome = state.Outcome{Tie: true}
	}
	s.Winner = &outcome
	return s.Winner
}

// runOpeningPhase places each player's active Pokemon (mandatory) and
// up to three benched basics (optional), starting player first.
// Unlike the main loop, opening placement is not
// routed through the generic move-generation stack: it runs before
// TurnCount is meaningful and both players act regardless of whose
// "turn" it nominally is, so the driver drives it directly rather than
// pretending it is a sequence of ordinary turn decisions.
func runOpeningPhase(s *state.State, agents [2]agent.Agent, rng *rand.Rand) error {
	order := [2]int{s.CurrentPlayer, 1 - s.CurrentPlayer}
	for _, p := range order {
		if err := placeOpeningActive(s, agents[p], rng, p); err != nil {
			return err
		}
	}
	for _, p := range order {
		if err := placeOpeningBench(s, agents[p], rng, p); err != nil {
			return err
		}
	}
	return nil
}

func placeOpeningActive(s *state.State, ag agent.Agent, rng *rand.Rand, p int) error {
	actions := filterBySlots(movegen.PlaceBasicActions(s, p), 0)
	if len(actions) == 0 {
		// No Basic in the opening hand: a real deck always carries
		// enough Basics to avoid this, but the engine does not
		// enforce deck legality, so a pathological deck can reach
		// here. The sub-decision is simply dropped, same as any
		// other unanswerable one.
		return nil
	}
	choice := ag.Decide(rng, s, actions)
	return action.SafeCommit(rng, s, choice)
}

func placeOpeningBench(s *state.State, ag agent.Agent, rng *rand.Rand, p int) error {
	for i := 0; i < 3; i++ {
		actions := filterBySlots(movegen.PlaceBasicActions(s, p), 1, 2, 3)
		if len(actions) == 0 {
			return nil
		}
		pass := state.Action{Actor: p, Kind: state.ActionEndTurn}
		choice := ag.Decide(rng, s, append(append([]state.Action{}, actions...), pass))
		if choice.Kind == state.ActionEndTurn {
			return nil
		}
		if err := action.SafeCommit(rng, s, choice); err != nil {
			return err
		}
	}
	return nil
}

func filterBySlots(actions []state.Action, slots ...int) []state.Action {
	var out []state.Action
	for _, a := range actions {
		for _, slot := range slots {
			if a.SlotIndex == slot {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// deckFromAgent builds the state.Deck an agent brings to a match.
// agent.Agent.Deck() returns only the card list; the declared
// energy pool isn't part of that contract, so the driver derives it
// deterministically as the sorted set of distinct elemental types
// among the deck's Pokemon (Colorless is never a generable energy —
// it only ever appears as a cost wildcard). Deriving it here keeps
// the Agent interface at its two methods.
func deckFromAgent(a agent.Agent) state.Deck {
	cards := a.Deck()
	seen := make(map[catalog.EnergyType]bool)
	var types []catalog.EnergyType
	for _, c := range cards {
		if !c.IsPokemon() || c.Pokemon.EnergyType == catalog.Colorless || seen[c.Pokemon.EnergyType] {
			continue
		}
		seen[c.Pokemon.EnergyType] = true
		types = append(types, c.Pokemon.EnergyType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return state.Deck{Cards: cards, EnergyTypes: types}
}

func outcomeString(o *state.Outcome) string {
	if o == nil {
		return "none"
	}
	if o.Tie {
		return "tie"
	}
	return fmt.Sprintf("player %d wins", o.Player)
}

func dumpState(s *state.State) string {
	return fmt.Sprintf("turn=%d points=%v hash=%x", s.TurnCount, s.Points, s.Hash())
}

// PlaySeries runs n matches between a (named aName) and b (named
// bName), aggregating standings into a simulation.Results table.
// Matches consume rng forward (the same *rand.Rand across matches,
// no per-match reseeding), so a whole series is reproducible from
// one seed.
func PlaySeries(n int, a, b agent.Agent, aName, bName string, rng *rand.Rand) (*simulation.Results, error) {
	results := simulation.NewResults()
	for i := 0; i < n; i++ {
		outcome, _, err := PlayMatch(a, b, rng)
		if err != nil {
			return results, fmt.Errorf("driver: match %d of %d: %w", i+1, n, err)
		}
		switch {
		case outcome.Tie:
			results.AddTie(aName)
			results.AddTie(bName)
		case outcome.Player == 0:
			results.AddWin(aName)
			results.AddLoss(bName)
		default:
			results.AddWin(bName)
			results.AddLoss(aName)
		}
	}
	return results, nil
}
