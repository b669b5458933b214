package state

import (
	"math/rand"

	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/gameerrors"
)

// MaybeDrawCard pops the top of player p's deck into their hand. A
// no-op on an empty deck; an empty deck does not by itself end the
// match, here or at end of turn.
func (s *State) MaybeDrawCard(p int) {
	if s.decks[p].len() == 0 {
		return
	}
	var drawn catalog.Card
	s.decks[p].mutate(func(data *[]catalog.Card) {
		drawn = (*data)[0]
		*data = (*data)[1:]
	})
	s.hands[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, drawn)
	})
}

// RemoveCardFromHand removes the first card in player p's hand whose
// id matches card, by value-equality. Returns CardNotInHandError if
// absent.
func (s *State) RemoveCardFromHand(p int, card catalog.Card) error {
	idx := indexOfCard(s.hands[p].get(), card.ID)
	if idx < 0 {
		return &gameerrors.CardNotInHandError{Player: p, Card: card.ID}
	}
	s.hands[p].mutate(func(data *[]catalog.Card) {
		*data = append((*data)[:idx], (*data)[idx+1:]...)
	})
	return nil
}

// DiscardCardFromHand removes card from player p's hand and appends it
// to their discard pile.
func (s *State) DiscardCardFromHand(p int, card catalog.Card) error {
	if err := s.RemoveCardFromHand(p, card); err != nil {
		return err
	}
	s.discardPiles[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, card)
	})
	return nil
}

// AddCardToHand appends card to player p's hand directly, bypassing
// the deck — used by effects that reveal or fetch a specific card
// (e.g. Poke Ball) rather than drawing blind from the top.
func (s *State) AddCardToHand(p int, card catalog.Card) {
	s.hands[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, card)
	})
}

// RemoveCardFromDeckAt removes and returns the card at index idx in
// player p's deck (0 = top), for effects that search the deck for a
// specific kind of card rather than drawing blind.
func (s *State) RemoveCardFromDeckAt(p, idx int) (catalog.Card, bool) {
	deck := s.decks[p].get()
	if idx < 0 || idx >= len(deck) {
		return catalog.Card{}, false
	}
	card := deck[idx]
	s.decks[p].mutate(func(data *[]catalog.Card) {
		*data = append((*data)[:idx], (*data)[idx+1:]...)
	})
	return card, true
}

// AddCardToDeckBottom appends card to the bottom of player p's deck,
// used by effects that look at the top card and choose not to keep it
// (e.g. Mythical Slab).
func (s *State) AddCardToDeckBottom(p int, card catalog.Card) {
	s.decks[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, card)
	})
}

// DiscardFromPlay moves card (a knocked-out PlayedCard's underlying
// card or one of its CardsBehind) to player p's discard pile directly,
// bypassing the hand.
func (s *State) DiscardFromPlay(p int, card catalog.Card) {
	s.discardPiles[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, card)
	})
}

// ShuffleHandIntoDeck moves all of player p's hand into their deck and
// reshuffles, used by Red Card.
func (s *State) ShuffleHandIntoDeck(p int, rng *rand.Rand) {
	hand := s.hands[p].get()
	s.decks[p].mutate(func(data *[]catalog.Card) {
		*data = append(*data, hand...)
	})
	s.hands[p].mutate(func(data *[]catalog.Card) {
		*data = (*data)[:0]
	})
	s.shuffleDeck(p, rng)
}

// GenerateEnergy uniformly samples one energy type from player p's
// declared pool and stores it as CurrentEnergy. A no-op (leaves
// CurrentEnergy nil) if the pool is empty.
func (s *State) GenerateEnergy(p int, rng *rand.Rand) {
	pool := s.energyPools[p]
	if len(pool) == 0 {
		s.CurrentEnergy = nil
		return
	}
	e := pool[rng.Intn(len(pool))]
	s.CurrentEnergy = &e
}

// ResetTurnStates clears the per-turn flags belonging to player p: the
// per-Pokemon PlayedThisTurn/AbilityUsed flags, and HasPlayedSupport /
// HasRetreated. Called on the player whose turn is beginning.
func (s *State) ResetTurnStates(p int) {
	for _, pc := range s.InPlay[p] {
		if pc == nil {
			continue
		}
		pc.PlayedThisTurn = false
		pc.AbilityUsed = false
	}
	s.HasPlayedSupport[p] = false
	s.HasRetreated[p] = false
}

// AddTurnEffect records card as active for turns [TurnCount,
// TurnCount+duration], inclusive, keyed by absolute turn index so
// iteration stays deterministic (sorted map key, insertion order
// within a turn).
func (s *State) AddTurnEffect(card catalog.Card, duration int) {
	s.turnEffects.mutate(func(data map[uint8][]catalog.Card) {
		for t := int(s.TurnCount); t <= int(s.TurnCount)+duration; t++ {
			key := uint8(t)
			data[key] = append(append([]catalog.Card(nil), data[key]...), card)
		}
	})
}

// PushSubDecision enqueues a sub-decision routed to actor: the next
// top-level Move Generator call is deferred until the stack drains.
func (s *State) PushSubDecision(actor int, actions []Action) {
	s.moveGenerationStack.mutate(func(data *[]StackFrame) {
		*data = append(*data, StackFrame{Actor: actor, Actions: actions})
	})
}

// PopSubDecision removes and returns the top (most recently pushed)
// stack frame.
func (s *State) PopSubDecision() (StackFrame, bool) {
	frames := s.moveGenerationStack.get()
	if len(frames) == 0 {
		return StackFrame{}, false
	}
	top := frames[len(frames)-1]
	s.moveGenerationStack.mutate(func(data *[]StackFrame) {
		*data = (*data)[:len(*data)-1]
	})
	return top, true
}

// SetRevealedTopCard records the card most recently revealed to
// player p by a peek effect (e.g. Mythical Slab's Play-time effect).
func (s *State) SetRevealedTopCard(p int, c *catalog.Card) {
	s.revealedTop[p] = c
}

// QueueDrawAction pushes a single-entry DrawCard sub-decision routed
// to actor. The draw still flows through the two-phase applier like
// every other action, so it is resolved (and its randomness drawn)
// at commit time, never at forecast time.
func (s *State) QueueDrawAction(actor int) {
	s.PushSubDecision(actor, []Action{{Actor: actor, Kind: ActionDrawCard, IsStack: true}})
}

// AdvanceTurn flips CurrentPlayer, increments TurnCount, resets the
// new player's turn flags, queues their draw, and generates their
// energy. Callers must ensure the move-generation stack is empty
// first (invariant 7).
func (s *State) AdvanceTurn(rng *rand.Rand) {
	s.CurrentPlayer = 1 - s.CurrentPlayer
	s.TurnCount++
	s.ResetTurnStates(s.CurrentPlayer)
	s.QueueDrawAction(s.CurrentPlayer)
	s.GenerateEnergy(s.CurrentPlayer, rng)
}

func indexOfCard(hand []catalog.Card, id catalog.CardID) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}
