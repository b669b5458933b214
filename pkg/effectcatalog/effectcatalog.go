// Package effectcatalog maps card-text effect identifiers to the Go
// functions implementing them. pkg/action dispatches into this
// package for ability, trainer, and attack-secondary-effect
// resolution.
package effectcatalog

import (
	"math"
	"math/rand"

	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

// AbilityMutation performs the effect of using the ability attached
// to the Pokemon at slot, owned by actor. Abilities in this catalog
// are all deterministic; none needs the rng.
type AbilityMutation func(rng *rand.Rand, s *state.State, actor, slot int)

// TrainerMutation performs the effect of playing card, a trainer in
// actor's hand (already removed from hand/discarded by the caller).
type TrainerMutation func(rng *rand.Rand, s *state.State, actor int, card catalog.Card)

// AttackContext carries the information an attack's secondary effect
// needs beyond rng and state.
type AttackContext struct {
	Actor        int
	DefenderSlot int
	SourceCard   catalog.Card // the attacking Pokemon's card, used as a turn-effect marker
}

// AttackApply performs one possible outcome of an attack's secondary
// effect (e.g. "apply poison" or "do nothing").
type AttackApply func(rng *rand.Rand, s *state.State, ctx AttackContext)

// AttackOutcome is the forecastable distribution over an attack's
// secondary effect, independent of (and layered on top of) its base
// damage. Most attacks have exactly one, no-op outcome.
type AttackOutcome struct {
	Probabilities []float64
	Apply         []AttackApply
}

var abilityHandlers = map[string]AbilityMutation{
	"heal20_all_own":      healAllOwn,
	"weezing_active_lock": weezingPoison,
}

var trainerHandlers = map[string]TrainerMutation{
	"heal20_single":          healSingle,
	"draw2":                  drawTwo,
	"reveal_random_basic":    revealRandomBasic,
	"opponent_shuffle_draw3": opponentShuffleDrawThree,
	"peek_top_own":           peekTopOwn,
	"giovanni_boost":         giovanniBoost,
	"sabrina_switch":         sabrinaSwitch,
}

var attackEffectHandlers = map[string]func() AttackOutcome{
	"smog_poison_coinflip": smogOutcome,
	"focus_energy_self":    focusEnergyOutcome,
	"harden_defense":       hardenOutcome,
}

// toolAttachHandlers fire once, at the moment a Tool is attached.
var toolAttachHandlers = map[string]func(s *state.State, actor, slot int){
	"rescue_board_heal_on_attach": rescueBoardHeal,
}

// ToolAttachHandler looks up the attach-time hook for a Tool's effect id.
func ToolAttachHandler(effectID string) (func(s *state.State, actor, slot int), bool) {
	h, ok := toolAttachHandlers[effectID]
	return h, ok
}

// AbilityHandler looks up the mutation for an ability's effect id.
func AbilityHandler(effectID string) (AbilityMutation, bool) {
	m, ok := abilityHandlers[effectID]
	return m, ok
}

// TrainerHandler looks up the mutation for a trainer's effect id.
// Every trainer in this map forecasts a single outcome — callers
// invoke the handler at commit, where any random element (Poké Ball's
// pick, Red Card's shuffle) is drawn from rng.
func TrainerHandler(effectID string) (TrainerMutation, bool) {
	m, ok := trainerHandlers[effectID]
	return m, ok
}

// AttackEffectOutcome returns the secondary-effect distribution for an
// attack's effect id. Unknown/empty ids return a single no-op outcome.
func AttackEffectOutcome(effectID string) AttackOutcome {
	if f, ok := attackEffectHandlers[effectID]; ok {
		return f()
	}
	return AttackOutcome{Probabilities: []float64{1}, Apply: []AttackApply{func(*rand.Rand, *state.State, AttackContext) {}}}
}

// ForecastMisty returns Misty's truncated-geometric coin-flip-chain
// distribution (0-5 heads, remaining mass folded into the last
// bucket) and, per outcome, the mutation that pushes one
// energy-attachment sub-decision per head onto the stack, routed back
// to actor.
func ForecastMisty(actor int) ([]float64, []func(rng *rand.Rand, s *state.State)) {
	const maxHeads = 5
	probs := make([]float64, maxHeads+1)
	sum := 0.0
	for k := 0; k < maxHeads; k++ {
		probs[k] = math.Pow(0.5, float64(k+1))
		sum += probs[k]
	}
	probs[maxHeads] = 1 - sum

	muts := make([]func(rng *rand.Rand, s *state.State), maxHeads+1)
	for k := 0; k <= maxHeads; k++ {
		heads := k
		muts[k] = func(rng *rand.Rand, s *state.State) {
			for h := 0; h < heads; h++ {
				s.PushSubDecision(actor, energyAttachChoices(s, actor, catalog.Water))
			}
		}
	}
	return probs, muts
}

func energyAttachChoices(s *state.State, actor int, energy catalog.EnergyType) []state.Action {
	var actions []state.Action
	for slot, pc := range s.InPlay[actor] {
		if pc == nil {
			continue
		}
		actions = append(actions, state.Action{
			Actor: actor, Kind: state.ActionAttach, IsStack: true,
			AttachList: []state.EnergyAttachment{{Energy: energy, SlotIndex: slot}},
		})
	}
	return actions
}

func healAllOwn(_ *rand.Rand, s *state.State, actor, _ int) {
	for _, pc := range s.EnumerateInPlay(actor) {
		healCapped(pc, 20)
	}
}

// peekTopOwn is Mythical Slab's Play effect: look at the top card of
// actor's own deck, put it in hand if it's a Psychic-type Pokemon,
// otherwise put it on the bottom of the deck. Forecast never branches
// on which card it is — the decision and the peeked card itself are
// resolved entirely inside this commit-time mutation and surfaced only
// through state.State.RevealedTopCard(actor), never through a
// forecast's Probabilities, so an opponent's agent inspecting the
// forecast can never learn it.
func peekTopOwn(_ *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	deck := s.DeckCards(actor)
	if len(deck) == 0 {
		s.SetRevealedTopCard(actor, nil)
		return
	}
	top := deck[0]
	s.SetRevealedTopCard(actor, &top)

	card, ok := s.RemoveCardFromDeckAt(actor, 0)
	if !ok {
		return
	}
	if card.IsPokemon() && card.Pokemon.EnergyType == catalog.Psychic {
		s.AddCardToHand(actor, card)
		return
	}
	s.AddCardToDeckBottom(actor, card)
}

// rescueBoardHeal is Rescue Board's attach effect: heal 10 damage from
// the Pokemon it's attached to, once, immediately, capped at full HP.
func rescueBoardHeal(s *state.State, actor, slot int) {
	if pc := s.InPlay[actor][slot]; pc != nil {
		healCapped(pc, 10)
	}
}

func weezingPoison(_ *rand.Rand, s *state.State, actor, _ int) {
	if defender := s.GetActive(1 - actor); defender != nil {
		defender.Poisoned = true
	}
}

// healSingle always targets the most-damaged own Pokemon: the Play
// action shape carries no explicit heal-target slot, so there's no
// agent-chosen target to read here.
func healSingle(_ *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	if target := mostDamaged(s, actor); target != nil {
		healCapped(target, 20)
	}
}

func drawTwo(_ *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	s.MaybeDrawCard(actor)
	s.MaybeDrawCard(actor)
}

func revealRandomBasic(rng *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	deck := s.DeckCards(actor)
	var basicIdx []int
	for i, c := range deck {
		if c.IsPokemon() && c.Pokemon.Stage == catalog.Basic {
			basicIdx = append(basicIdx, i)
		}
	}
	if len(basicIdx) == 0 {
		return
	}
	idx := basicIdx[rng.Intn(len(basicIdx))]
	card, ok := s.RemoveCardFromDeckAt(actor, idx)
	if ok {
		s.AddCardToHand(actor, card)
	}
}

func opponentShuffleDrawThree(rng *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	opponent := 1 - actor
	s.ShuffleHandIntoDeck(opponent, rng)
	for i := 0; i < 3; i++ {
		s.MaybeDrawCard(opponent)
	}
}

func giovanniBoost(_ *rand.Rand, s *state.State, actor int, card catalog.Card) {
	s.AddTurnEffect(card, 0)
}

func sabrinaSwitch(_ *rand.Rand, s *state.State, actor int, _ catalog.Card) {
	opponent := 1 - actor
	var actions []state.Action
	for slot := 1; slot < 4; slot++ {
		if s.InPlay[opponent][slot] != nil {
			actions = append(actions, state.Action{Actor: opponent, Kind: state.ActionActivate, SlotIndex: slot, IsStack: true})
		}
	}
	if len(actions) == 0 {
		return
	}
	s.PushSubDecision(opponent, actions)
}

func smogOutcome() AttackOutcome {
	return AttackOutcome{
		Probabilities: []float64{0.5, 0.5},
		Apply: []AttackApply{
			func(*rand.Rand, *state.State, AttackContext) {},
			func(_ *rand.Rand, s *state.State, ctx AttackContext) {
				if defender := s.GetActive(1 - ctx.Actor); defender != nil {
					defender.Poisoned = true
				}
			},
		},
	}
}

// focusEnergyOutcome marks the attacker's card as a +damage aura
// through the turn after next — the attacker's own next turn, since
// turns alternate between players.
func focusEnergyOutcome() AttackOutcome {
	return AttackOutcome{
		Probabilities: []float64{1},
		Apply: []AttackApply{
			func(_ *rand.Rand, s *state.State, ctx AttackContext) {
				s.AddTurnEffect(ctx.SourceCard, 2)
			},
		},
	}
}

// hardenOutcome marks the defender-to-be (the attacker using Harden)
// as damage-reduced through the opponent's next turn.
func hardenOutcome() AttackOutcome {
	return AttackOutcome{
		Probabilities: []float64{1},
		Apply: []AttackApply{
			func(_ *rand.Rand, s *state.State, ctx AttackContext) {
				s.AddTurnEffect(ctx.SourceCard, 1)
			},
		},
	}
}

func mostDamaged(s *state.State, actor int) *state.PlayedCard {
	var best *state.PlayedCard
	for _, pc := range s.EnumerateInPlay(actor) {
		if pc.DamageTaken() > 0 && (best == nil || pc.DamageTaken() > best.DamageTaken()) {
			best = pc
		}
	}
	return best
}

func healCapped(pc *state.PlayedCard, amount int) {
	pc.RemainingHP += amount
	if pc.RemainingHP > pc.TotalHP() {
		pc.RemainingHP = pc.TotalHP()
	}
}
