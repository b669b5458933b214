// Package movegen enumerates the legal actions for the current
// decision. It is pure and total: the same State always yields the
// same action list, and it never returns an error — illegitimate
// moves are simply absent from the list.
package movegen

import (
	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

// GenerateActions returns the complete list of legal actions for
// s.CurrentPlayer. Callers must only invoke this when the
// move-generation stack is empty (invariant 7) — stack frames already
// carry their own pre-built action lists.
func GenerateActions(s *state.State) []state.Action {
	actor := s.CurrentPlayer
	var actions []state.Action

	actions = append(actions, placeBasicMoves(s, actor)...)
	actions = append(actions, evolveMoves(s, actor)...)
	actions = append(actions, attachEnergyMoves(s, actor)...)
	actions = append(actions, attachToolMoves(s, actor)...)
	actions = append(actions, playTrainerMoves(s, actor)...)
	actions = append(actions, useAbilityMoves(s, actor)...)
	actions = append(actions, retreatMoves(s, actor)...)
	actions = append(actions, attackMoves(s, actor)...)
	actions = append(actions, state.Action{Actor: actor, Kind: state.ActionEndTurn})

	return actions
}

// PlaceBasicActions returns the legal basic-Pokemon placement actions
// for actor (one per Basic in hand times each empty in-play slot).
// Exported for pkg/driver's opening phase, which must generate
// placement actions for a player independent of s.CurrentPlayer
// (opening placement is simultaneous setup, not a turn).
func PlaceBasicActions(s *state.State, actor int) []state.Action {
	return placeBasicMoves(s, actor)
}

func emptySlots(s *state.State, p int) []int {
	var slots []int
	for i, pc := range s.InPlay[p] {
		if pc == nil {
			slots = append(slots, i)
		}
	}
	return slots
}

func placeBasicMoves(s *state.State, actor int) []state.Action {
	var actions []state.Action
	slots := emptySlots(s, actor)
	for _, card := range s.Hand(actor) {
		if !card.IsPokemon() || card.Pokemon.Stage != catalog.Basic {
			continue
		}
		for _, slot := range slots {
			actions = append(actions, state.Action{Actor: actor, Kind: state.ActionPlace, Card: card, SlotIndex: slot})
		}
	}
	return actions
}

func evolveMoves(s *state.State, actor int) []state.Action {
	var actions []state.Action
	for _, card := range s.Hand(actor) {
		if !card.IsPokemon() || card.Pokemon.Stage == catalog.Basic {
			continue
		}
		for slot, occupant := range s.InPlay[actor] {
			if occupant == nil || occupant.PlayedThisTurn {
				continue
			}
			if occupant.Underlying.Pokemon.Name == card.Pokemon.EvolvesFrom {
				actions = append(actions, state.Action{Actor: actor, Kind: state.ActionEvolve, Card: card, SlotIndex: slot})
			}
		}
	}
	return actions
}

func attachEnergyMoves(s *state.State, actor int) []state.Action {
	if s.CurrentEnergy == nil {
		return nil
	}
	var actions []state.Action
	for slot, occupant := range s.InPlay[actor] {
		if occupant == nil {
			continue
		}
		actions = append(actions, state.Action{
			Actor: actor, Kind: state.ActionAttach, IsTurnEnergy: true,
			AttachList: []state.EnergyAttachment{{Energy: *s.CurrentEnergy, SlotIndex: slot}},
		})
	}
	return actions
}

func attachToolMoves(s *state.State, actor int) []state.Action {
	var actions []state.Action
	for _, card := range s.Hand(actor) {
		if !card.IsTrainer() || card.Trainer.Subtype != catalog.Tool {
			continue
		}
		for slot, occupant := range s.InPlay[actor] {
			if occupant == nil || occupant.AttachedTool != "" {
				continue
			}
			actions = append(actions, state.Action{Actor: actor, Kind: state.ActionAttachTool, Card: card, SlotIndex: slot})
		}
	}
	return actions
}

func playTrainerMoves(s *state.State, actor int) []state.Action {
	var actions []state.Action
	for _, card := range s.Hand(actor) {
		if !card.IsTrainer() {
			continue
		}
		switch card.Trainer.Subtype {
		case catalog.Item:
			if !canPlayItem(s, actor, card) {
				continue
			}
		case catalog.Supporter:
			if s.HasPlayedSupport[actor] || !canPlaySupporter(s, actor, card) {
				continue
			}
		default:
			continue // Tools are played via AttachTool, not Play
		}
		actions = append(actions, state.Action{Actor: actor, Kind: state.ActionPlay, Card: card})
	}
	return actions
}

// canPlayItem checks item-specific targeting preconditions that are
// visible information (never hidden-deck contents).
func canPlayItem(s *state.State, actor int, card catalog.Card) bool {
	switch card.Trainer.EffectID {
	case "heal20_single":
		for _, pc := range s.EnumerateInPlay(actor) {
			if pc.DamageTaken() > 0 {
				return true
			}
		}
		return false
	case "reveal_random_basic":
		return len(s.DeckCards(actor)) > 0
	default:
		return true
	}
}

// canPlaySupporter checks supporter-specific targeting preconditions
// that are visible information.
func canPlaySupporter(s *state.State, actor int, card catalog.Card) bool {
	switch card.Trainer.EffectID {
	case "sabrina_switch":
		return len(s.EnumerateBench(1-actor)) > 0
	default:
		return true
	}
}

func useAbilityMoves(s *state.State, actor int) []state.Action {
	var actions []state.Action
	for slot, occupant := range s.InPlay[actor] {
		if occupant == nil || occupant.AbilityUsed || occupant.Underlying.Pokemon.Ability == nil {
			continue
		}
		if !abilityPreconditionHolds(occupant.Underlying.Pokemon.Ability.EffectID, slot) {
			continue
		}
		actions = append(actions, state.Action{Actor: actor, Kind: state.ActionUseAbility, SlotIndex: slot})
	}
	return actions
}

func abilityPreconditionHolds(effectID string, slot int) bool {
	switch effectID {
	case "weezing_active_lock":
		return slot == 0
	default:
		return true
	}
}

func retreatMoves(s *state.State, actor int) []state.Action {
	if s.HasRetreated[actor] {
		return nil
	}
	active := s.GetActive(actor)
	if active == nil || !active.CanPayRetreat() {
		return nil
	}
	var actions []state.Action
	for slot := 1; slot < 4; slot++ {
		if s.InPlay[actor][slot] != nil {
			actions = append(actions, state.Action{Actor: actor, Kind: state.ActionRetreat, SlotIndex: slot})
		}
	}
	return actions
}

func attackMoves(s *state.State, actor int) []state.Action {
	if s.TurnCount < 2 {
		return nil
	}
	active := s.GetActive(actor)
	if active == nil || active.Asleep || active.Paralyzed {
		return nil
	}
	var actions []state.Action
	for idx, attack := range active.Underlying.Pokemon.Attacks {
		if catalog.CanPayCost(active.AttachedEnergy, attack.Cost) {
			actions = append(actions, state.Action{Actor: actor, Kind: state.ActionAttack, AttackIndex: idx})
		}
	}
	return actions
}
