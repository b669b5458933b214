package state

import "github.com/signalnine/pokebattle/pkg/catalog"

// GetActive returns player p's active Pokémon, or nil if the slot is
// empty (only valid outside the opening phase and a knockout
// replacement sub-decision — invariant 1).
func (s *State) GetActive(p int) *PlayedCard { return s.InPlay[p][0] }

// EnumerateInPlay returns all non-empty in-play slots for player p,
// active first then bench in slot order.
func (s *State) EnumerateInPlay(p int) []*PlayedCard {
	out := make([]*PlayedCard, 0, 4)
	for _, pc := range s.InPlay[p] {
		if pc != nil {
			out = append(out, pc)
		}
	}
	return out
}

// EnumerateBench returns player p's non-empty bench slots (1-3) in
// slot order.
func (s *State) EnumerateBench(p int) []*PlayedCard {
	out := make([]*PlayedCard, 0, 3)
	for _, pc := range s.InPlay[p][1:] {
		if pc != nil {
			out = append(out, pc)
		}
	}
	return out
}

// NumInPlayOfType counts player p's in-play Pokémon whose elemental
// type is e.
func (s *State) NumInPlayOfType(p int, e catalog.EnergyType) int {
	n := 0
	for _, pc := range s.InPlay[p] {
		if pc != nil && pc.Underlying.Pokemon.EnergyType == e {
			n++
		}
	}
	return n
}

// CurrentTurnEffects returns the cards whose effects are scoped to the
// current turn.
func (s *State) CurrentTurnEffects() []catalog.Card {
	return s.turnEffects.get()[s.TurnCount]
}

// IsGameOver reports whether the match has a winner or has hit the
// turn limit.
func (s *State) IsGameOver() bool {
	return s.Winner != nil || s.TurnCount >= 100
}

// Hand returns player p's current hand. Callers must treat the
// returned slice as read-only; mutate through RemoveCardFromHand /
// DiscardCardFromHand / MaybeDrawCard instead.
func (s *State) Hand(p int) []catalog.Card { return s.hands[p].get() }

// DeckCards returns player p's remaining deck, index 0 the top.
// Read-only for the same reason as Hand.
func (s *State) DeckCards(p int) []catalog.Card { return s.decks[p].get() }

// DiscardPile returns player p's discard pile.
func (s *State) DiscardPile(p int) []catalog.Card { return s.discardPiles[p].get() }

// EnergyPool returns the energy types player p's deck declares it can
// generate.
func (s *State) EnergyPool(p int) []catalog.EnergyType { return s.energyPools[p] }

// MoveGenerationStack returns the current LIFO of pending sub-decisions,
// top of stack last (append order).
func (s *State) MoveGenerationStack() []StackFrame { return s.moveGenerationStack.get() }

// StackEmpty reports whether no sub-decision is outstanding (invariant 7
// requires this before every top-level Move Generator call).
func (s *State) StackEmpty() bool { return s.moveGenerationStack.len() == 0 }

// TurnEffects returns the full turn-index-keyed effect map.
func (s *State) TurnEffects() map[uint8][]catalog.Card { return s.turnEffects.get() }

// RevealedTopCard returns the card last peeked atop player p's own
// deck by a peek effect (e.g. Mythical Slab), or nil if none has been
// revealed yet this match. This is information p's own agent may
// legitimately read; an agent deciding for 1-p must not.
func (s *State) RevealedTopCard(p int) *catalog.Card { return s.revealedTop[p] }
