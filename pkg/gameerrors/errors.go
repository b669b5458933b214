// Package gameerrors is the typed error taxonomy surfaced by the safe
// (checked) layer of the engine. The fast, unchecked layer used by
// already-validated Move Generator output may panic instead; these
// types exist for the caller-misuse class of fault, not the
// engine-bug class.
package gameerrors

import (
	"fmt"

	"github.com/signalnine/pokebattle/pkg/catalog"
)

// InvalidPlayerError is returned for a player index outside {0,1}.
type InvalidPlayerError struct {
	Player int
}

func (e *InvalidPlayerError) Error() string {
	return fmt.Sprintf("gameerrors: invalid player %d", e.Player)
}

// InvalidCardPositionError is returned for an in-play slot index
// outside {0,1,2,3}.
type InvalidCardPositionError struct {
	Position int
}

func (e *InvalidCardPositionError) Error() string {
	return fmt.Sprintf("gameerrors: invalid card position %d", e.Position)
}

// CardNotInHandError is returned when a caller names a card absent
// from the player's hand.
type CardNotInHandError struct {
	Player int
	Card   catalog.CardID
}

func (e *CardNotInHandError) Error() string {
	return fmt.Sprintf("gameerrors: player %d has no %s in hand", e.Player, e.Card)
}

// NoPokemonAtPositionError is returned when a caller references an
// in-play slot that is empty.
type NoPokemonAtPositionError struct {
	Player   int
	Position int
}

func (e *NoPokemonAtPositionError) Error() string {
	return fmt.Sprintf("gameerrors: player %d has no Pokemon at position %d", e.Player, e.Position)
}

// NoActivePokemonError is returned when an operation requires an
// active Pokémon and slot 0 is empty.
type NoActivePokemonError struct {
	Player int
}

func (e *NoActivePokemonError) Error() string {
	return fmt.Sprintf("gameerrors: player %d has no active Pokemon", e.Player)
}

// EmptyDeckError is returned when an operation requires drawing from
// an empty deck and deck-out handling does not apply.
type EmptyDeckError struct {
	Player int
}

func (e *EmptyDeckError) Error() string {
	return fmt.Sprintf("gameerrors: player %d's deck is empty", e.Player)
}

// InvalidEvolutionError is returned when From does not evolve into To.
type InvalidEvolutionError struct {
	From catalog.CardID
	To   catalog.CardID
}

func (e *InvalidEvolutionError) Error() string {
	return fmt.Sprintf("gameerrors: %s does not evolve into %s", e.From, e.To)
}

// MissingEnergyError is returned when attached energy does not cover
// a declared cost.
type MissingEnergyError struct {
	Needed []catalog.EnergyType
}

func (e *MissingEnergyError) Error() string {
	return fmt.Sprintf("gameerrors: missing energy to pay cost %v", e.Needed)
}

// InvalidGameStateError covers invariant violations not captured by a
// more specific type.
type InvalidGameStateError struct {
	Reason string
}

func (e *InvalidGameStateError) Error() string {
	return fmt.Sprintf("gameerrors: invalid game state: %s", e.Reason)
}

// GameAlreadyOverError is returned when an operation is attempted
// after State.Winner is set.
type GameAlreadyOverError struct{}

func (e *GameAlreadyOverError) Error() string {
	return "gameerrors: game is already over"
}
