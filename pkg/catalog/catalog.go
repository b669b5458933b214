package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalnine/pokebattle/internal/tlog"
)

//go:embed cards.json
var embeddedCards embed.FS

// cardRecord is the on-disk JSON shape; LoadCatalog converts it to Card.
type cardRecord struct {
	ID          CardID   `json:"id"`
	NumericID   uint16   `json:"numeric_id"`
	Kind        string   `json:"kind"` // "pokemon" | "trainer"
	Name        string   `json:"name"`
	HP          int      `json:"hp,omitempty"`
	EnergyType  string   `json:"energy_type,omitempty"`
	Stage       int      `json:"stage,omitempty"`
	EvolvesFrom string   `json:"evolves_from,omitempty"`
	Weakness    *string  `json:"weakness,omitempty"`
	RetreatCost []string `json:"retreat_cost,omitempty"`
	Ability     *struct {
		Title    string `json:"title"`
		EffectID string `json:"effect_id"`
	} `json:"ability,omitempty"`
	Attacks []struct {
		Name     string   `json:"name"`
		Cost     []string `json:"cost"`
		Damage   int      `json:"damage"`
		EffectID string   `json:"effect_id,omitempty"`
	} `json:"attacks,omitempty"`
	Subtype  string `json:"subtype,omitempty"`
	EffectID string `json:"effect_id,omitempty"`
}

// Catalog is the immutable, concurrency-safe card lookup table.
type Catalog struct {
	byID      map[CardID]Card
	byNumeric map[uint16]CardID
}

var defaultCatalog *Catalog

func init() {
	f, err := embeddedCards.Open("cards.json")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded cards.json missing: %v", err))
	}
	defer f.Close()

	c, err := LoadCatalog(f)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded cards.json invalid: %v", err))
	}
	defaultCatalog = c
	tlog.LogMeta("loaded %d cards from embedded catalog", len(c.byID))
}

// LoadCatalog builds a Catalog from a JSON reader in the cardRecord shape.
// Exposed so tests and tools can load an alternate card set without
// touching the embedded default.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}

	var records []cardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	c := &Catalog{
		byID:      make(map[CardID]Card, len(records)),
		byNumeric: make(map[uint16]CardID, len(records)),
	}

	for _, rec := range records {
		card, err := rec.toCard()
		if err != nil {
			return nil, fmt.Errorf("catalog: card %s: %w", rec.ID, err)
		}
		c.byID[card.ID] = card
		c.byNumeric[card.NumericID] = card.ID
	}

	return c, nil
}

func (rec cardRecord) toCard() (Card, error) {
	card := Card{ID: rec.ID, NumericID: rec.NumericID}

	switch rec.Kind {
	case "pokemon":
		retreat := make([]EnergyType, 0, len(rec.RetreatCost))
		for _, s := range rec.RetreatCost {
			e, ok := EnergyTypeFromString(s)
			if !ok {
				return Card{}, fmt.Errorf("unknown retreat energy %q", s)
			}
			retreat = append(retreat, e)
		}

		energy, ok := EnergyTypeFromString(rec.EnergyType)
		if !ok {
			return Card{}, fmt.Errorf("unknown energy type %q", rec.EnergyType)
		}

		var weakness *EnergyType
		if rec.Weakness != nil {
			w, ok := EnergyTypeFromString(*rec.Weakness)
			if !ok {
				return Card{}, fmt.Errorf("unknown weakness type %q", *rec.Weakness)
			}
			weakness = &w
		}

		var ability *Ability
		if rec.Ability != nil {
			ability = &Ability{Title: rec.Ability.Title, EffectID: rec.Ability.EffectID}
		}

		attacks := make([]Attack, 0, len(rec.Attacks))
		for _, a := range rec.Attacks {
			cost := make([]EnergyType, 0, len(a.Cost))
			for _, s := range a.Cost {
				e, ok := EnergyTypeFromString(s)
				if !ok {
					return Card{}, fmt.Errorf("unknown attack energy %q", s)
				}
				cost = append(cost, e)
			}
			attacks = append(attacks, Attack{Cost: cost, Name: a.Name, Damage: a.Damage, EffectID: a.EffectID})
		}

		card.Pokemon = &PokemonCard{
			Name:        rec.Name,
			HP:          rec.HP,
			EnergyType:  energy,
			Stage:       Stage(rec.Stage),
			EvolvesFrom: rec.EvolvesFrom,
			Weakness:    weakness,
			RetreatCost: retreat,
			Ability:     ability,
			Attacks:     attacks,
		}

	case "trainer":
		var subtype TrainerSubtype
		switch rec.Subtype {
		case "Item":
			subtype = Item
		case "Supporter":
			subtype = Supporter
		case "Tool":
			subtype = Tool
		default:
			return Card{}, fmt.Errorf("unknown trainer subtype %q", rec.Subtype)
		}
		card.Trainer = &TrainerCard{Name: rec.Name, Subtype: subtype, EffectID: rec.EffectID}

	default:
		return Card{}, fmt.Errorf("unknown card kind %q", rec.Kind)
	}

	return card, nil
}

// Default returns the process-wide catalog loaded from the embedded card
// set. Safe for concurrent access without synchronization: it is built
// once at init and never mutated.
func Default() *Catalog { return defaultCatalog }

// CardByID returns the card for id. Panics on unknown ids — the caller
// (always code that already validated the id, e.g. a parsed deck-list or
// the Move Generator's own output) is at fault if this ever fires.
func (c *Catalog) CardByID(id CardID) Card {
	card, ok := c.byID[id]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown card id %q", id))
	}
	return card
}

// CardIDFromNumeric maps a stable numeric id back to its CardID.
func (c *Catalog) CardIDFromNumeric(n uint16) (CardID, bool) {
	id, ok := c.byNumeric[n]
	return id, ok
}

// CardByID is a convenience wrapper over Default().CardByID.
func CardByID(id CardID) Card { return defaultCatalog.CardByID(id) }

// CardIDFromNumeric is a convenience wrapper over Default().CardIDFromNumeric.
func CardIDFromNumeric(n uint16) (CardID, bool) { return defaultCatalog.CardIDFromNumeric(n) }
