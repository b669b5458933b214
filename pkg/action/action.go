// Package action implements the two-phase forecast/commit contract
// that keeps search agents pure: Forecast never mutates or draws,
// Commit draws exactly once from the forecasted distribution and
// applies one lazy mutation.
package action

import (
	"fmt"
	"math/rand"

	"github.com/signalnine/pokebattle/internal/tlog"
	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/effectcatalog"
	"github.com/signalnine/pokebattle/pkg/gameerrors"
	"github.com/signalnine/pokebattle/pkg/state"
)

// Action and ActionKind are re-exported so callers of this package
// rarely need to import pkg/state directly.
type Action = state.Action
type ActionKind = state.ActionKind

// Mutation applies one forecasted outcome of an action to s.
type Mutation func(rng *rand.Rand, s *state.State, a Action)

// Outcome is the forecasted distribution over an action's possible
// commits. len(Probabilities) == len(Mutations) and the
// probabilities sum to 1 (within floating-point tolerance).
type Outcome struct {
	Probabilities []float64
	Mutations     []Mutation
}

func singleOutcome(m Mutation) Outcome {
	return Outcome{Probabilities: []float64{1.0}, Mutations: []Mutation{m}}
}

// Forecast computes the probability distribution of outcomes for a in
// s without mutating s or drawing from any RNG. For the
// hidden-information-sensitive actions (DrawCard and the four listed
// trainer effects) this always returns a single outcome — the random
// element is resolved inside the mutation closure at Commit time, per
// the hidden-information discipline.
func Forecast(s *state.State, a Action) (Outcome, error) {
	switch a.Kind {
	case state.ActionDrawCard:
		return singleOutcome(commitDrawCard), nil
	case state.ActionPlace:
		return singleOutcome(commitPlace), nil
	case state.ActionEvolve:
		return singleOutcome(commitEvolve), nil
	case state.ActionAttach:
		return singleOutcome(commitAttach), nil
	case state.ActionAttachTool:
		return singleOutcome(commitAttachTool), nil
	case state.ActionUseAbility:
		return singleOutcome(commitUseAbility), nil
	case state.ActionActivate:
		return singleOutcome(commitActivate), nil
	case state.ActionRetreat:
		return singleOutcome(commitRetreat), nil
	case state.ActionApplyDamage:
		return singleOutcome(commitApplyDamage), nil
	case state.ActionHeal:
		return singleOutcome(commitHeal), nil
	case state.ActionAttack:
		return forecastAttack(s, a)
	case state.ActionPlay:
		return forecastPlay(s, a)
	case state.ActionEndTurn:
		return forecastEndTurn(s, a)
	default:
		return Outcome{}, &gameerrors.InvalidGameStateError{Reason: fmt.Sprintf("unknown action kind %v", a.Kind)}
	}
}

// Commit draws an index from Forecast(s, a)'s distribution using rng
// and applies the corresponding mutation. This is the fast,
// unchecked path: illegal actions (ones the Move Generator would
// never have produced) may panic. Use SafeCommit at a boundary where
// caller-supplied actions need a typed error instead.
func Commit(rng *rand.Rand, s *state.State, a Action) error {
	outcome, err := Forecast(s, a)
	if err != nil {
		return err
	}
	idx := sampleIndex(rng, outcome.Probabilities)
	outcome.Mutations[idx](rng, s, a)
	tlog.LogAction("player %d committed %s (stack=%v)", a.Actor, a.Kind, a.IsStack)
	return nil
}

// SafeCommit validates the basic caller-misuse preconditions (player
// range, game-already-over) and recovers any panic from the fast path
// into a typed gameerrors value, for callers that accept
// un-trusted/un-generated actions.
func SafeCommit(rng *rand.Rand, s *state.State, a Action) (err error) {
	if a.Actor != 0 && a.Actor != 1 {
		return &gameerrors.InvalidPlayerError{Player: a.Actor}
	}
	if a.SlotIndex < 0 || a.SlotIndex > 3 {
		return &gameerrors.InvalidCardPositionError{Position: a.SlotIndex}
	}
	if s.Winner != nil {
		return &gameerrors.GameAlreadyOverError{}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &gameerrors.InvalidGameStateError{Reason: fmt.Sprintf("%v", r)}
		}
	}()
	return Commit(rng, s, a)
}

func sampleIndex(rng *rand.Rand, probabilities []float64) int {
	r := rng.Float64()
	cumulative := 0.0
	for i, p := range probabilities {
		cumulative += p
		if r < cumulative {
			return i
		}
	}
	return len(probabilities) - 1
}

func panicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

func hasAttackEffect(card catalog.Card, effectID string) bool {
	for _, attack := range card.Pokemon.Attacks {
		if attack.EffectID == effectID {
			return true
		}
	}
	return false
}

func commitDrawCard(_ *rand.Rand, s *state.State, a Action) {
	s.MaybeDrawCard(a.Actor)
}

func commitPlace(_ *rand.Rand, s *state.State, a Action) {
	panicIfErr(s.RemoveCardFromHand(a.Actor, a.Card))
	pc := state.NewPlayedCard(a.Card)
	pc.PlayedThisTurn = true
	s.InPlay[a.Actor][a.SlotIndex] = pc
}

func commitEvolve(_ *rand.Rand, s *state.State, a Action) {
	previous := s.InPlay[a.Actor][a.SlotIndex]
	if previous == nil {
		panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: a.SlotIndex})
	}
	if !a.Card.IsPokemon() ||
		a.Card.Pokemon.Stage != previous.Underlying.Pokemon.Stage+1 ||
		a.Card.Pokemon.EvolvesFrom != previous.Underlying.Pokemon.Name {
		panic(&gameerrors.InvalidEvolutionError{From: previous.Underlying.ID, To: a.Card.ID})
	}
	panicIfErr(s.RemoveCardFromHand(a.Actor, a.Card))
	s.InPlay[a.Actor][a.SlotIndex] = previous.EvolveInto(a.Card)
}

func commitAttach(_ *rand.Rand, s *state.State, a Action) {
	for _, att := range a.AttachList {
		pc := s.InPlay[a.Actor][att.SlotIndex]
		if pc == nil {
			panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: att.SlotIndex})
		}
		pc.AttachedEnergy = append(pc.AttachedEnergy, att.Energy)
	}
	if a.IsTurnEnergy {
		s.CurrentEnergy = nil
	}
}

func commitAttachTool(_ *rand.Rand, s *state.State, a Action) {
	panicIfErr(s.RemoveCardFromHand(a.Actor, a.Card))
	pc := s.InPlay[a.Actor][a.SlotIndex]
	if pc == nil {
		panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: a.SlotIndex})
	}
	pc.AttachedTool = a.Card.ID
	if hook, ok := effectcatalog.ToolAttachHandler(a.Card.Trainer.EffectID); ok {
		hook(s, a.Actor, a.SlotIndex)
	}
}

func commitUseAbility(rng *rand.Rand, s *state.State, a Action) {
	pc := s.InPlay[a.Actor][a.SlotIndex]
	if pc == nil || pc.Underlying.Pokemon.Ability == nil {
		panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: a.SlotIndex})
	}
	if mutate, ok := effectcatalog.AbilityHandler(pc.Underlying.Pokemon.Ability.EffectID); ok {
		mutate(rng, s, a.Actor, a.SlotIndex)
	}
	pc.AbilityUsed = true
}

func commitActivate(_ *rand.Rand, s *state.State, a Action) {
	wasActive := s.InPlay[a.Actor][0]
	incoming := s.InPlay[a.Actor][a.SlotIndex]
	s.InPlay[a.Actor][0], s.InPlay[a.Actor][a.SlotIndex] = incoming, wasActive
	if wasActive != nil {
		wasActive.ClearStatus() // the now-benched Pokemon
	}
}

func commitRetreat(_ *rand.Rand, s *state.State, a Action) {
	active := s.InPlay[a.Actor][0]
	bench := s.InPlay[a.Actor][a.SlotIndex]
	if active == nil || bench == nil {
		panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: a.SlotIndex})
	}
	if !active.CanPayRetreat() {
		panic(&gameerrors.MissingEnergyError{Needed: active.Underlying.Pokemon.RetreatCost})
	}
	active.PayRetreat()
	s.InPlay[a.Actor][0], s.InPlay[a.Actor][a.SlotIndex] = bench, active
	active.ClearStatus()
	s.HasRetreated[a.Actor] = true
}

func commitApplyDamage(_ *rand.Rand, s *state.State, a Action) {
	for _, dmg := range a.Damage {
		opponent := 1 - a.Actor
		pc := s.InPlay[opponent][dmg.SlotIndex]
		if pc == nil {
			continue
		}
		pc.RemainingHP -= dmg.Amount
		if pc.RemainingHP <= 0 {
			eliminated := knockoutCore(s, opponent, dmg.SlotIndex, pc)
			resolveWinAfterKnockout(s, opponent, eliminated)
		}
	}
}

func commitHeal(_ *rand.Rand, s *state.State, a Action) {
	pc := s.InPlay[a.Actor][a.HealSlotIndex]
	if pc == nil {
		panic(&gameerrors.NoPokemonAtPositionError{Player: a.Actor, Position: a.HealSlotIndex})
	}
	pc.RemainingHP += a.HealAmount
	if pc.RemainingHP > pc.TotalHP() {
		pc.RemainingHP = pc.TotalHP()
	}
}

// knockoutCore performs the shared part of the knockout sub-routine
// (award points, discard the card and its evolution history, clear
// the slot, push a replacement sub-decision). Returns true if owner's
// active was knocked out with no bench left, which the caller must
// resolve into a win for the opponent.
func knockoutCore(s *state.State, owner, slot int, pc *state.PlayedCard) (eliminatedNoBench bool) {
	const pointsPerKO = 1 // this catalog has no Ex Pokemon (worth 2)
	opponent := 1 - owner
	s.Points[opponent] += pointsPerKO

	s.DiscardFromPlay(owner, pc.Underlying)
	for _, behind := range pc.CardsBehind {
		s.DiscardFromPlay(owner, behind)
	}
	s.InPlay[owner][slot] = nil

	if slot != 0 {
		return false
	}
	bench := s.EnumerateBench(owner)
	if len(bench) == 0 {
		return true
	}

	var replacements []Action
	for benchSlot := 1; benchSlot < 4; benchSlot++ {
		if s.InPlay[owner][benchSlot] != nil {
			replacements = append(replacements, Action{Actor: owner, Kind: state.ActionActivate, SlotIndex: benchSlot, IsStack: true})
		}
	}
	s.PushSubDecision(owner, replacements)
	return false
}

func resolveWinAfterKnockout(s *state.State, eliminatedOwner int, eliminated bool) {
	opponent := 1 - eliminatedOwner
	if eliminated {
		s.Winner = &state.Outcome{Player: opponent}
		return
	}
	if s.Points[opponent] >= 3 {
		s.Winner = &state.Outcome{Player: opponent}
	}
}

func forecastAttack(s *state.State, a Action) (Outcome, error) {
	active := s.GetActive(a.Actor)
	if active == nil {
		return Outcome{}, &gameerrors.NoActivePokemonError{Player: a.Actor}
	}
	if a.AttackIndex < 0 || a.AttackIndex >= len(active.Underlying.Pokemon.Attacks) {
		return Outcome{}, &gameerrors.InvalidGameStateError{Reason: "attack index out of range"}
	}
	attack := active.Underlying.Pokemon.Attacks[a.AttackIndex]
	attackerCard := active.Underlying

	damage := attack.Damage
	defender := s.GetActive(1 - a.Actor)
	if defender != nil && defender.Underlying.Pokemon.Weakness != nil &&
		*defender.Underlying.Pokemon.Weakness == attackerCard.Pokemon.EnergyType {
		damage += attack.Damage // weakness doubles total damage
	}
	// Turn-effect auras are keyed by Card, not by in-play instance
	// (the turn_effects map stores Cards only), so markers match any
	// copy of the same card.
	for _, effectCard := range s.CurrentTurnEffects() {
		switch {
		case effectCard.IsTrainer() && effectCard.Trainer.EffectID == "giovanni_boost":
			damage += 10
		case effectCard.IsPokemon() && effectCard.ID == attackerCard.ID &&
			hasAttackEffect(effectCard, "focus_energy_self"):
			damage += 30
		case effectCard.IsPokemon() && defender != nil && effectCard.ID == defender.Underlying.ID &&
			hasAttackEffect(effectCard, "harden_defense"):
			damage -= 20
		}
	}
	if damage < 0 {
		damage = 0
	}

	secondary := effectcatalog.AttackEffectOutcome(attack.EffectID)
	mutations := make([]Mutation, len(secondary.Apply))
	for i, apply := range secondary.Apply {
		apply := apply
		mutations[i] = func(rng *rand.Rand, s *state.State, a Action) {
			// Attacking is the turn-ending action. The EndTurn frame
			// goes on the stack before the damage is applied so that a
			// knockout's replacement frame, pushed above it, resolves
			// first; the turn passes only once the stack drains back
			// down to this frame.
			s.PushSubDecision(a.Actor, []state.Action{{Actor: a.Actor, Kind: state.ActionEndTurn, IsStack: true}})
			opponent := 1 - a.Actor
			if defender := s.GetActive(opponent); defender != nil {
				defender.RemainingHP -= damage
				if defender.RemainingHP <= 0 {
					eliminated := knockoutCore(s, opponent, 0, defender)
					resolveWinAfterKnockout(s, opponent, eliminated)
				}
			}
			apply(rng, s, effectcatalog.AttackContext{Actor: a.Actor, DefenderSlot: 0, SourceCard: attackerCard})
		}
	}
	return Outcome{Probabilities: secondary.Probabilities, Mutations: mutations}, nil
}

func forecastPlay(s *state.State, a Action) (Outcome, error) {
	if !a.Card.IsTrainer() {
		return Outcome{}, &gameerrors.InvalidGameStateError{Reason: "Play requires a trainer card"}
	}
	card := a.Card

	if card.Trainer.EffectID == "misty_coinflip_energy" {
		probs, heads := effectcatalog.ForecastMisty(a.Actor)
		mutations := make([]Mutation, len(heads))
		for i, headMutation := range heads {
			headMutation := headMutation
			mutations[i] = func(rng *rand.Rand, s *state.State, a Action) {
				panicIfErr(s.DiscardCardFromHand(a.Actor, a.Card))
				s.HasPlayedSupport[a.Actor] = true
				headMutation(rng, s)
			}
		}
		return Outcome{Probabilities: probs, Mutations: mutations}, nil
	}

	mutate, ok := effectcatalog.TrainerHandler(card.Trainer.EffectID)
	if !ok {
		return Outcome{}, &gameerrors.InvalidGameStateError{Reason: "unknown trainer effect " + card.Trainer.EffectID}
	}
	return singleOutcome(func(rng *rand.Rand, s *state.State, a Action) {
		panicIfErr(s.DiscardCardFromHand(a.Actor, a.Card))
		if a.Card.Trainer.Subtype == catalog.Supporter {
			s.HasPlayedSupport[a.Actor] = true
		}
		mutate(rng, s, a.Actor, a.Card)
	}), nil
}

func forecastEndTurn(s *state.State, a Action) (Outcome, error) {
	active := s.GetActive(s.CurrentPlayer)
	poisonDamage := 0
	clearsParalysis := false
	if active != nil {
		if active.Poisoned {
			poisonDamage = 10
		}
		clearsParalysis = active.Paralyzed
	}

	if active != nil && active.Asleep {
		return Outcome{
			Probabilities: []float64{0.5, 0.5},
			Mutations: []Mutation{
				endTurnMutation(poisonDamage, clearsParalysis, true),
				endTurnMutation(poisonDamage, clearsParalysis, false),
			},
		}, nil
	}
	return singleOutcome(endTurnMutation(poisonDamage, clearsParalysis, false)), nil
}

func endTurnMutation(poisonDamage int, clearsParalysis, wakesUp bool) Mutation {
	return func(rng *rand.Rand, s *state.State, _ Action) {
		owner := s.CurrentPlayer
		if active := s.GetActive(owner); active != nil {
			if poisonDamage > 0 {
				active.RemainingHP -= poisonDamage
				if active.RemainingHP <= 0 {
					eliminated := knockoutCore(s, owner, 0, active)
					resolveWinAfterKnockout(s, owner, eliminated)
				}
			}
			if clearsParalysis {
				active.Paralyzed = false
			}
			if wakesUp {
				active.Asleep = false
			}
		}
		if s.Winner == nil {
			s.AdvanceTurn(rng)
		}
	}
}
