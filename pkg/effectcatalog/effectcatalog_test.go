package effectcatalog

import (
	"math/rand"
	"testing"

	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

func newStateWithActive(p int, id catalog.CardID) *state.State {
	deck := state.Deck{EnergyTypes: []catalog.EnergyType{catalog.Fighting}}
	s := state.New(deck, deck)
	s.InPlay[p][0] = state.NewPlayedCard(catalog.CardByID(id))
	return s
}

func TestHealAllOwnCapsAtFullHP(t *testing.T) {
	s := newStateWithActive(0, "A1012Butterfree")
	s.InPlay[0][0].RemainingHP = 60 // 10 damage taken

	mutate, ok := AbilityHandler("heal20_all_own")
	if !ok {
		t.Fatal("expected heal20_all_own handler to be registered")
	}
	mutate(nil, s, 0, 0)

	if s.InPlay[0][0].RemainingHP != 70 {
		t.Fatalf("remaining_hp=%d, want 70 (capped)", s.InPlay[0][0].RemainingHP)
	}
}

func TestWeezingPoisonsOpponentActive(t *testing.T) {
	s := newStateWithActive(0, "A1031Weezing")
	s.InPlay[1][0] = state.NewPlayedCard(catalog.CardByID("A1010Caterpie"))

	mutate, _ := AbilityHandler("weezing_active_lock")
	mutate(nil, s, 0, 0)

	if !s.InPlay[1][0].Poisoned {
		t.Fatal("expected opponent's active to be poisoned")
	}
}

func TestDrawTwoDrawsTwoCards(t *testing.T) {
	deck := state.Deck{
		Cards:       []catalog.Card{catalog.CardByID("A1010Caterpie"), catalog.CardByID("A1011Metapod")},
		EnergyTypes: []catalog.EnergyType{catalog.Fighting},
	}
	s := state.New(deck, deck)

	mutate, _ := TrainerHandler("draw2")
	mutate(nil, s, 0, catalog.CardByID("PA010ProfessorsResearch"))

	if len(s.Hand(0)) != 2 {
		t.Fatalf("hand size=%d, want 2", len(s.Hand(0)))
	}
	if len(s.DeckCards(0)) != 0 {
		t.Fatalf("deck size=%d, want 0", len(s.DeckCards(0)))
	}
}

func TestForecastMistyProbabilitiesSumToOne(t *testing.T) {
	probs, muts := ForecastMisty(0)
	if len(probs) != len(muts) {
		t.Fatalf("len(probabilities)=%d != len(mutations)=%d", len(probs), len(muts))
	}
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("probabilities sum to %f, want 1.0", sum)
	}
}

func TestMistyHeadsPushesOneSubDecisionPerHead(t *testing.T) {
	s := newStateWithActive(0, "A1020Mankey")
	_, muts := ForecastMisty(0)

	threeHeadsMutation := muts[3]
	threeHeadsMutation(rand.New(rand.NewSource(1)), s)

	count := 0
	for {
		if _, ok := s.PopSubDecision(); !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Fatalf("pushed %d sub-decisions, want 3 (one per head)", count)
	}
}

func TestSabrinaSwitchPushesActivateForEachBenchSlot(t *testing.T) {
	s := newStateWithActive(0, "A1020Mankey")
	s.InPlay[1][0] = state.NewPlayedCard(catalog.CardByID("A1010Caterpie"))
	s.InPlay[1][1] = state.NewPlayedCard(catalog.CardByID("A1011Metapod"))

	mutate, _ := TrainerHandler("sabrina_switch")
	mutate(nil, s, 0, catalog.CardByID("PA021Sabrina"))

	frame, ok := s.PopSubDecision()
	if !ok {
		t.Fatal("expected a pushed sub-decision")
	}
	if frame.Actor != 1 {
		t.Fatalf("frame actor=%d, want 1 (the opponent)", frame.Actor)
	}
	if len(frame.Actions) != 1 {
		t.Fatalf("expected 1 Activate option (one benched slot), got %d", len(frame.Actions))
	}
}

func TestSmogOutcomeIsGenuineCoinFlip(t *testing.T) {
	outcome := AttackEffectOutcome("smog_poison_coinflip")
	if len(outcome.Probabilities) != 2 || outcome.Probabilities[0] != 0.5 || outcome.Probabilities[1] != 0.5 {
		t.Fatalf("expected a 50/50 split, got %v", outcome.Probabilities)
	}

	s := newStateWithActive(0, "A1030Koffing")
	s.InPlay[1][0] = state.NewPlayedCard(catalog.CardByID("A1010Caterpie"))

	outcome.Apply[1](nil, s, AttackContext{Actor: 0, DefenderSlot: 0})
	if !s.InPlay[1][0].Poisoned {
		t.Fatal("expected the 'heads' branch to poison the defender")
	}
}

func TestPeekTopOwnPsychicGoesToHand(t *testing.T) {
	top := catalog.CardByID("A1040Abra")
	deck := state.Deck{Cards: []catalog.Card{top}, EnergyTypes: []catalog.EnergyType{catalog.Psychic}}
	s := state.New(deck, deck)
	slab := catalog.CardByID("PA013MythicalSlab")

	mutate, ok := TrainerHandler("peek_top_own")
	if !ok {
		t.Fatal("expected peek_top_own handler to be registered")
	}
	mutate(nil, s, 0, slab)

	revealed := s.RevealedTopCard(0)
	if revealed == nil || revealed.ID != top.ID {
		t.Fatalf("revealed top card = %v, want %s", revealed, top.ID)
	}
	if len(s.DeckCards(0)) != 0 {
		t.Fatalf("deck size=%d, want 0 (Psychic card moved to hand)", len(s.DeckCards(0)))
	}
	if len(s.Hand(0)) != 1 || s.Hand(0)[0].ID != top.ID {
		t.Fatalf("hand=%v, want [%s]", s.Hand(0), top.ID)
	}
}

func TestPeekTopOwnNonPsychicGoesToBottom(t *testing.T) {
	top := catalog.CardByID("A1010Caterpie")
	rest := catalog.CardByID("A1011Metapod")
	deck := state.Deck{Cards: []catalog.Card{top, rest}, EnergyTypes: []catalog.EnergyType{catalog.Grass}}
	s := state.New(deck, deck)
	slab := catalog.CardByID("PA013MythicalSlab")

	mutate, _ := TrainerHandler("peek_top_own")
	mutate(nil, s, 0, slab)

	revealed := s.RevealedTopCard(0)
	if revealed == nil || revealed.ID != top.ID {
		t.Fatalf("revealed top card = %v, want %s", revealed, top.ID)
	}
	deckCards := s.DeckCards(0)
	if len(deckCards) != 2 {
		t.Fatalf("deck size=%d, want 2 (non-Psychic card moved to bottom, not removed)", len(deckCards))
	}
	if deckCards[len(deckCards)-1].ID != top.ID {
		t.Fatalf("bottom card=%v, want %s", deckCards[len(deckCards)-1], top.ID)
	}
	if len(s.Hand(0)) != 0 {
		t.Fatalf("hand size=%d, want 0", len(s.Hand(0)))
	}
}

func TestPeekTopOwnOnEmptyDeckRevealsNil(t *testing.T) {
	deck := state.Deck{EnergyTypes: []catalog.EnergyType{catalog.Grass}}
	s := state.New(deck, deck)
	slab := catalog.CardByID("PA013MythicalSlab")

	mutate, _ := TrainerHandler("peek_top_own")
	mutate(nil, s, 0, slab)

	if got := s.RevealedTopCard(0); got != nil {
		t.Fatalf("revealed top card = %v, want nil on empty deck", got)
	}
}

func TestRescueBoardHealHealsAttachedPokemon(t *testing.T) {
	s := newStateWithActive(0, "A1011Metapod")
	s.InPlay[0][0].RemainingHP = s.InPlay[0][0].TotalHP() - 15

	hook, ok := ToolAttachHandler("rescue_board_heal_on_attach")
	if !ok {
		t.Fatal("expected rescue_board_heal_on_attach handler to be registered")
	}
	hook(s, 0, 0)

	if want := s.InPlay[0][0].TotalHP() - 5; s.InPlay[0][0].RemainingHP != want {
		t.Fatalf("remaining_hp=%d, want %d", s.InPlay[0][0].RemainingHP, want)
	}
}

func TestUnknownAttackEffectIsSingleNoOpOutcome(t *testing.T) {
	outcome := AttackEffectOutcome("")
	if len(outcome.Probabilities) != 1 || outcome.Probabilities[0] != 1 {
		t.Fatalf("expected a single deterministic outcome, got %v", outcome.Probabilities)
	}
}
