package state

import (
	"fmt"

	"github.com/signalnine/pokebattle/pkg/catalog"
)

// Invariants a well-formed State must satisfy at every point it is
// observed between committed actions:
//
//  1. InPlay[p][0] is non-nil whenever it is player p's turn to act on
//     their own active, except during the opening phase and a pending
//     knockout-replacement sub-decision.
//  2. RemainingHP > 0 for every non-nil PlayedCard; a Pokemon reduced to
//     0 HP is removed and points are awarded in the same commit.
//  3. Card conservation: for every player, the multiset union of hand,
//     deck, discard, and in-play (including CardsBehind) equals that
//     player's starting deck multiset.
//  4. CurrentEnergy is non-nil only between turn start and the one
//     allowed attach per turn (or never used that turn).
//  5. At most one Supporter resolves per turn per player
//     (HasPlayedSupport); at most one retreat per turn (HasRetreated).
//  6. TurnCount is monotone non-decreasing.
//  7. MoveGenerationStack is empty at every point the turn owner would
//     otherwise be asked for a primary (non-stack) action.
//  8. Hash and Equal are defined over the full state above, with
//     TurnEffects iterated by sorted turn index then insertion order.
//
// CheckInvariants below exercises 2 (plus the upper HP bound) and 3
// directly; 1, 4, 5, 6, and 7 are structural (enforced by the Action
// Applier's and Game Driver's control flow) and 8 is exercised by
// state_test.go's clone/Equal test rather than here.

// CheckInvariants validates the subset of invariants expressible as a
// pure function of State plus the two players' starting deck
// multisets. Returns a descriptive error on the first violation found;
// used by property tests, not by the hot path.
func CheckInvariants(s *State, startingDeckA, startingDeckB []catalog.Card) error {
	starting := [2][]catalog.Card{startingDeckA, startingDeckB}

	for p := 0; p < 2; p++ {
		for slot, pc := range s.InPlay[p] {
			if pc == nil {
				continue
			}
			if pc.RemainingHP <= 0 {
				return fmt.Errorf("player %d slot %d: remaining_hp=%d, want >0", p, slot, pc.RemainingHP)
			}
			if pc.RemainingHP > pc.TotalHP() {
				return fmt.Errorf("player %d slot %d: remaining_hp=%d exceeds total_hp=%d", p, slot, pc.RemainingHP, pc.TotalHP())
			}
		}

		if err := checkConservation(p, s, starting[p]); err != nil {
			return err
		}
	}

	// Invariant 7 (stack emptiness at top-level decisions) is a
	// driver-level control-flow property, not checkable from State alone.
	return nil
}

func checkConservation(p int, s *State, startingDeck []catalog.Card) error {
	want := multiset(startingDeck)

	got := map[catalog.CardID]int{}
	addAll := func(cards []catalog.Card) {
		for _, c := range cards {
			got[c.ID]++
		}
	}
	addAll(s.Hand(p))
	addAll(s.DeckCards(p))
	addAll(s.DiscardPile(p))
	for _, pc := range s.InPlay[p] {
		if pc == nil {
			continue
		}
		got[pc.Underlying.ID]++
		addAll(pc.CardsBehind)
	}

	for id, n := range want {
		if got[id] != n {
			return fmt.Errorf("player %d: card %s count %d, want %d", p, id, got[id], n)
		}
	}
	for id, n := range got {
		if want[id] != n {
			return fmt.Errorf("player %d: card %s count %d, want %d", p, id, n, want[id])
		}
	}
	return nil
}

func multiset(cards []catalog.Card) map[catalog.CardID]int {
	m := make(map[catalog.CardID]int, len(cards))
	for _, c := range cards {
		m[c.ID]++
	}
	return m
}
