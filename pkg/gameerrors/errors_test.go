package gameerrors

import (
	"errors"
	"testing"

	"github.com/signalnine/pokebattle/pkg/catalog"
)

func TestErrorsCarryReproductionContext(t *testing.T) {
	cases := []error{
		&InvalidPlayerError{Player: 2},
		&InvalidCardPositionError{Position: 9},
		&CardNotInHandError{Player: 0, Card: "A1001Bulbasaur"},
		&NoPokemonAtPositionError{Player: 1, Position: 2},
		&NoActivePokemonError{Player: 0},
		&EmptyDeckError{Player: 1},
		&InvalidEvolutionError{From: "A1020Mankey", To: "A1012Butterfree"},
		&MissingEnergyError{Needed: []catalog.EnergyType{catalog.Fire}},
		&InvalidGameStateError{Reason: "stack non-empty at top-level decision"},
		&GameAlreadyOverError{},
	}
	for _, c := range cases {
		if c.Error() == "" {
			t.Fatalf("%T: empty error string", c)
		}
	}
}

func TestErrorsAreDistinguishableByType(t *testing.T) {
	var err error = &CardNotInHandError{Player: 0, Card: "PA001Potion"}

	var target *CardNotInHandError
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to match *CardNotInHandError")
	}
	if target.Card != "PA001Potion" {
		t.Fatalf("got card %v, want PA001Potion", target.Card)
	}

	var wrongTarget *NoActivePokemonError
	if errors.As(err, &wrongTarget) {
		t.Fatal("did not expect CardNotInHandError to match NoActivePokemonError")
	}
}
