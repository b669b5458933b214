package state

import "github.com/signalnine/pokebattle/pkg/catalog"

// ActionKind discriminates the families an Action can belong to. The
// Move Generator only ever emits Actions whose Kind/field combination is
// legal for the state it was generated from.
type ActionKind int

const (
	ActionDrawCard ActionKind = iota
	ActionPlace
	ActionEvolve
	ActionAttach
	ActionAttachTool
	ActionUseAbility
	ActionActivate
	ActionRetreat
	ActionApplyDamage
	ActionHeal
	ActionAttack
	ActionPlay
	ActionEndTurn
)

func (k ActionKind) String() string {
	switch k {
	case ActionDrawCard:
		return "DrawCard"
	case ActionPlace:
		return "Place"
	case ActionEvolve:
		return "Evolve"
	case ActionAttach:
		return "Attach"
	case ActionAttachTool:
		return "AttachTool"
	case ActionUseAbility:
		return "UseAbility"
	case ActionActivate:
		return "Activate"
	case ActionRetreat:
		return "Retreat"
	case ActionApplyDamage:
		return "ApplyDamage"
	case ActionHeal:
		return "Heal"
	case ActionAttack:
		return "Attack"
	case ActionPlay:
		return "Play"
	case ActionEndTurn:
		return "EndTurn"
	default:
		return "Unknown"
	}
}

// EnergyAttachment is one (energy, slot) entry within an Attach
// action's list; attaching N energies is N entries.
type EnergyAttachment struct {
	Energy    catalog.EnergyType
	SlotIndex int
}

// DamageTarget is one (amount, slot) pair within an ApplyDamage action.
type DamageTarget struct {
	Amount    int
	SlotIndex int
}

// Action is the engine's single action representation. Exactly one
// subset of its fields is meaningful per Kind. Kept as one flat
// struct (rather than a family of named types) so the Move Generator,
// Action Applier, and agents can all pass it around by value.
type Action struct {
	Actor   int
	Kind    ActionKind
	IsStack bool // true when this action resolves a pushed sub-decision

	Card         catalog.Card // Place/Evolve/AttachTool(the tool)/Play
	SlotIndex    int          // target in-play slot: Place/Evolve/UseAbility/Activate/Retreat
	AttachList   []EnergyAttachment
	IsTurnEnergy bool

	AttackIndex int

	Damage []DamageTarget

	HealSlotIndex int
	HealAmount    int
}

// StackFrame is one entry of State.MoveGenerationStack: a set of
// actions routed to Actor, who must pick exactly one to resolve the
// frame. Actor may differ from the turn owner (Sabrina routes to the
// opponent, Misty routes back to the acting player).
type StackFrame struct {
	Actor   int
	Actions []Action
}
