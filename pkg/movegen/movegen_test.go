package movegen

import (
	"testing"

	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

func newTestState() *state.State {
	deck := state.Deck{EnergyTypes: []catalog.EnergyType{catalog.Fighting}}
	return state.New(deck, deck)
}

// newTestStateWithHand builds a state whose player 0 deck starts with
// exactly handCards on top, then draws them into hand one at a time —
// the only way a card legitimately reaches a hand in this engine.
func newTestStateWithHand(handCards ...catalog.CardID) *state.State {
	cards := make([]catalog.Card, len(handCards))
	for i, id := range handCards {
		cards[i] = catalog.CardByID(id)
	}
	deck := state.Deck{Cards: cards, EnergyTypes: []catalog.EnergyType{catalog.Fighting}}
	s := state.New(deck, state.Deck{EnergyTypes: []catalog.EnergyType{catalog.Fighting}})
	for range handCards {
		s.MaybeDrawCard(0)
	}
	return s
}

func countByKind(actions []state.Action, kind state.ActionKind) int {
	n := 0
	for _, a := range actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

func TestCannotAttackBeforeTurnTwo(t *testing.T) {
	s := newTestState()
	s.TurnCount = 1
	mankey := state.NewPlayedCard(catalog.CardByID("A1020Mankey"))
	mankey.AttachedEnergy = []catalog.EnergyType{catalog.Fighting, catalog.Fighting}
	s.InPlay[0][0] = mankey

	actions := GenerateActions(s)
	if countByKind(actions, state.ActionAttack) != 0 {
		t.Fatal("expected no Attack actions on turn 1")
	}

	s.TurnCount = 2
	actions = GenerateActions(s)
	if countByKind(actions, state.ActionAttack) == 0 {
		t.Fatal("expected Attack actions to appear on turn 2")
	}
}

func TestEndTurnAlwaysAvailable(t *testing.T) {
	s := newTestState()
	actions := GenerateActions(s)
	if countByKind(actions, state.ActionEndTurn) != 1 {
		t.Fatal("expected exactly one EndTurn action")
	}
}

func TestSupporterLockout(t *testing.T) {
	s := newTestStateWithHand("PA020Giovanni")
	s.InPlay[0][0] = state.NewPlayedCard(catalog.CardByID("A1020Mankey"))
	giovanni := catalog.CardByID("PA020Giovanni")

	s.HasPlayedSupport[0] = true
	actions := GenerateActions(s)
	for _, a := range actions {
		if a.Kind == state.ActionPlay && a.Card.ID == giovanni.ID {
			t.Fatal("Giovanni should not be playable while HasPlayedSupport is true")
		}
	}

	s.HasPlayedSupport[0] = false
	actions = GenerateActions(s)
	found := false
	for _, a := range actions {
		if a.Kind == state.ActionPlay && a.Card.ID == giovanni.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("Giovanni should reappear once HasPlayedSupport resets")
	}
}

func TestPlaceBasicOneActionPerEmptySlot(t *testing.T) {
	s := newTestStateWithHand("A1010Caterpie")

	actions := GenerateActions(s)
	if countByKind(actions, state.ActionPlace) != 4 {
		t.Fatalf("expected 4 Place actions (one per empty slot), got %d", countByKind(actions, state.ActionPlace))
	}
}

func TestRetreatRequiresEnergyAndBench(t *testing.T) {
	s := newTestState()
	active := state.NewPlayedCard(catalog.CardByID("A1020Mankey")) // retreat cost 1 Colorless
	s.InPlay[0][0] = active

	if countByKind(GenerateActions(s), state.ActionRetreat) != 0 {
		t.Fatal("expected no Retreat actions with no energy and no bench")
	}

	active.AttachedEnergy = []catalog.EnergyType{catalog.Colorless}
	s.InPlay[0][1] = state.NewPlayedCard(catalog.CardByID("A1021Primeape"))

	if countByKind(GenerateActions(s), state.ActionRetreat) != 1 {
		t.Fatal("expected one Retreat action once energy and a bench slot are present")
	}
}

func TestSabrinaRequiresOpponentBench(t *testing.T) {
	s := newTestStateWithHand("PA021Sabrina")
	s.InPlay[0][0] = state.NewPlayedCard(catalog.CardByID("A1020Mankey"))

	actions := GenerateActions(s)
	if countByKind(actions, state.ActionPlay) != 0 {
		t.Fatal("expected Sabrina unplayable with no opposing bench")
	}

	s.InPlay[1][1] = state.NewPlayedCard(catalog.CardByID("A1010Caterpie"))
	actions = GenerateActions(s)
	if countByKind(actions, state.ActionPlay) != 1 {
		t.Fatal("expected Sabrina playable once the opponent has a benched Pokemon")
	}
}

func TestAttachToolOneActionPerEmptyToolSlot(t *testing.T) {
	s := newTestStateWithHand("PA014RescueBoard")
	s.InPlay[0][0] = state.NewPlayedCard(catalog.CardByID("A1020Mankey"))
	s.InPlay[0][1] = state.NewPlayedCard(catalog.CardByID("A1021Primeape"))

	actions := GenerateActions(s)
	if countByKind(actions, state.ActionAttachTool) != 2 {
		t.Fatalf("expected 2 AttachTool actions (one per occupied, tool-less slot), got %d", countByKind(actions, state.ActionAttachTool))
	}

	s.InPlay[0][0].AttachedTool = "PA014RescueBoard"
	actions = GenerateActions(s)
	if countByKind(actions, state.ActionAttachTool) != 1 {
		t.Fatal("expected a slot with a Tool already attached to drop out of AttachTool actions")
	}
}

func TestMythicalSlabIsPlayedNotAttached(t *testing.T) {
	s := newTestStateWithHand("PA013MythicalSlab")
	s.InPlay[0][0] = state.NewPlayedCard(catalog.CardByID("A1020Mankey"))

	actions := GenerateActions(s)
	if countByKind(actions, state.ActionAttachTool) != 0 {
		t.Fatal("Mythical Slab is an Item, it must not generate AttachTool actions")
	}
	found := false
	for _, a := range actions {
		if a.Kind == state.ActionPlay && a.Card.ID == "PA013MythicalSlab" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected Mythical Slab to be playable via Play like any other Item")
	}
}

func TestPlaceBasicActionsIsActorIndependentOfCurrentPlayer(t *testing.T) {
	s := newTestStateWithHand("A1010Caterpie")
	s.CurrentPlayer = 0

	actions := PlaceBasicActions(s, 1)
	if len(actions) != 0 {
		t.Fatalf("expected no Place actions for player 1 (empty hand), got %d", len(actions))
	}

	s.AddCardToHand(1, catalog.CardByID("A1010Caterpie"))
	actions = PlaceBasicActions(s, 1)
	if countByKind(actions, state.ActionPlace) != 4 {
		t.Fatalf("expected 4 Place actions for player 1 regardless of s.CurrentPlayer, got %d", countByKind(actions, state.ActionPlace))
	}
}
