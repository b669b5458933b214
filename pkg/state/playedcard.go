package state

import "github.com/signalnine/pokebattle/pkg/catalog"

// PlayedCard is a Pokémon currently occupying an in-play slot (active
// or bench). Underlying is always the Pokémon variant of catalog.Card.
type PlayedCard struct {
	Underlying     catalog.Card
	RemainingHP    int
	AttachedEnergy []catalog.EnergyType
	AttachedTool   catalog.CardID // zero value ("") means none
	PlayedThisTurn bool
	AbilityUsed    bool
	// The three status flags are stored as independent booleans; the
	// engine does not force paralysis and sleep to be mutually
	// exclusive, it simply never sets both.
	Poisoned  bool
	Paralyzed bool
	Asleep    bool
	CardsBehind    []catalog.Card // evolution history, bottom to top
}

// NewPlayedCard places card fresh from hand: full HP, no energy, no
// status, no evolution history.
func NewPlayedCard(card catalog.Card) *PlayedCard {
	if !card.IsPokemon() {
		panic("state: NewPlayedCard called with a non-Pokemon card")
	}
	return &PlayedCard{
		Underlying:  card,
		RemainingHP: card.Pokemon.HP,
	}
}

// TotalHP is the card's maximum HP, independent of damage taken.
func (p *PlayedCard) TotalHP() int { return p.Underlying.Pokemon.HP }

// DamageTaken is the difference between total and remaining HP.
func (p *PlayedCard) DamageTaken() int { return p.TotalHP() - p.RemainingHP }

// Clone deep-copies p; the fixed-size InPlay arrays in State are
// plainly cloned slot by slot using this method.
func (p *PlayedCard) Clone() *PlayedCard {
	if p == nil {
		return nil
	}
	clone := *p
	clone.AttachedEnergy = append([]catalog.EnergyType(nil), p.AttachedEnergy...)
	clone.CardsBehind = append([]catalog.Card(nil), p.CardsBehind...)
	return &clone
}

// EvolveInto replaces p's underlying card with next (a Stage s+1 card
// whose EvolvesFrom matches p's name), preserving damage taken and
// attached energy, clearing status, and recording p in CardsBehind.
func (p *PlayedCard) EvolveInto(next catalog.Card) *PlayedCard {
	if !next.IsPokemon() {
		panic("state: EvolveInto called with a non-Pokemon card")
	}
	damageTaken := p.DamageTaken()
	evolved := &PlayedCard{
		Underlying:     next,
		RemainingHP:    next.Pokemon.HP - damageTaken,
		AttachedEnergy: append([]catalog.EnergyType(nil), p.AttachedEnergy...),
		PlayedThisTurn: true,
		AbilityUsed:    false,
		CardsBehind:    append(append([]catalog.Card(nil), p.CardsBehind...), p.Underlying),
	}
	return evolved
}

// ClearStatus resets the three status flags, used on retreat/activate.
func (p *PlayedCard) ClearStatus() {
	p.Poisoned = false
	p.Paralyzed = false
	p.Asleep = false
}

// CanPayRetreat reports whether AttachedEnergy covers the card's
// declared retreat cost.
func (p *PlayedCard) CanPayRetreat() bool {
	return catalog.CanPayCost(p.AttachedEnergy, p.Underlying.Pokemon.RetreatCost)
}

// PayRetreat truncates AttachedEnergy by the retreat cost's length:
// retreating discards that many attached energies without tracking
// which specific ones paid.
func (p *PlayedCard) PayRetreat() {
	cost := len(p.Underlying.Pokemon.RetreatCost)
	if cost >= len(p.AttachedEnergy) {
		p.AttachedEnergy = nil
		return
	}
	p.AttachedEnergy = p.AttachedEnergy[:len(p.AttachedEnergy)-cost]
}
