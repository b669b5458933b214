// Package state implements the mutable, cloneable, hashable match
// snapshot that every other engine package reads or writes through.
package state

import (
	"math/rand"

	"github.com/signalnine/pokebattle/pkg/catalog"
)

// Outcome is the terminal result of a match. Player is meaningful only
// when Tie is false.
type Outcome struct {
	Tie    bool
	Player int
}

// Deck is the minimal shape State needs to initialize a match: a card
// list and the energy types the deck declares it can generate.
// pkg/decklist builds this from the on-disk text format.
type Deck struct {
	Cards       []catalog.Card
	EnergyTypes []catalog.EnergyType
}

// State is the entire match snapshot. Large collections are held
// behind copy-on-write wrappers (see cow.go) so Clone is O(1) until
// first mutation of each field; InPlay is a small fixed-size array and
// is plainly deep-cloned.
type State struct {
	Winner        *Outcome
	Points        [2]uint8
	TurnCount     uint8
	CurrentPlayer int

	moveGenerationStack cowSlice[StackFrame]
	CurrentEnergy       *catalog.EnergyType

	hands        [2]cowSlice[catalog.Card]
	decks        [2]cowSlice[catalog.Card]
	discardPiles [2]cowSlice[catalog.Card]

	InPlay [2][4]*PlayedCard

	HasPlayedSupport [2]bool
	HasRetreated     [2]bool

	turnEffects cowMap[uint8, []catalog.Card]

	// energyPools is the per-player declared energy pool a deck can
	// generate from, sampled by GenerateEnergy each turn.
	energyPools [2][]catalog.EnergyType

	// revealedTop is the card last peeked atop player p's own deck by a
	// peek effect (e.g. Mythical Slab's Play-time effect). Visible only
	// to p; Card is immutable once built by the catalog, so sharing the
	// pointer across clones is safe.
	revealedTop [2]*catalog.Card
}

// New builds a zero-valued State from two decks: no hands dealt, no
// winner, turn 0. Call Initialize to shuffle, deal, and pick a
// starting player.
func New(a, b Deck) *State {
	s := &State{}
	s.decks[0] = newCowSlice(append([]catalog.Card(nil), a.Cards...))
	s.decks[1] = newCowSlice(append([]catalog.Card(nil), b.Cards...))
	s.hands[0] = newCowSlice([]catalog.Card{})
	s.hands[1] = newCowSlice([]catalog.Card{})
	s.discardPiles[0] = newCowSlice([]catalog.Card{})
	s.discardPiles[1] = newCowSlice([]catalog.Card{})
	s.moveGenerationStack = newCowSlice([]StackFrame{})
	s.turnEffects = newCowMap(map[uint8][]catalog.Card{})
	s.energyPools[0] = append([]catalog.EnergyType(nil), a.EnergyTypes...)
	s.energyPools[1] = append([]catalog.EnergyType(nil), b.EnergyTypes...)
	return s
}

// Initialize shuffles both decks, deals five cards to each hand, and
// picks the starting player by fair coin. Uses the caller's rng so the
// whole match, including setup, is reproducible from one seed.
func (s *State) Initialize(rng *rand.Rand) {
	for p := 0; p < 2; p++ {
		s.shuffleDeck(p, rng)
		for i := 0; i < 5; i++ {
			s.MaybeDrawCard(p)
		}
	}
	s.CurrentPlayer = rng.Intn(2)
}

func (s *State) shuffleDeck(p int, rng *rand.Rand) {
	s.decks[p].mutate(func(data *[]catalog.Card) {
		cards := *data
		rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	})
}

// Clone returns a State sharing copy-on-write backing storage with s;
// no mutation of the clone is visible on s (or vice versa) because
// each cow field forks independently on first write.
func (s *State) Clone() *State {
	clone := &State{
		Points:           s.Points,
		TurnCount:        s.TurnCount,
		CurrentPlayer:    s.CurrentPlayer,
		HasPlayedSupport: s.HasPlayedSupport,
		HasRetreated:     s.HasRetreated,
		energyPools:      s.energyPools,
		revealedTop:      s.revealedTop,
	}
	if s.Winner != nil {
		w := *s.Winner
		clone.Winner = &w
	}
	if s.CurrentEnergy != nil {
		e := *s.CurrentEnergy
		clone.CurrentEnergy = &e
	}
	clone.moveGenerationStack = s.moveGenerationStack.clone()
	clone.turnEffects = s.turnEffects.clone()
	for p := 0; p < 2; p++ {
		clone.hands[p] = s.hands[p].clone()
		clone.decks[p] = s.decks[p].clone()
		clone.discardPiles[p] = s.discardPiles[p].clone()
		for slot := 0; slot < 4; slot++ {
			clone.InPlay[p][slot] = s.InPlay[p][slot].Clone()
		}
	}
	return clone
}
