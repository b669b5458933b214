// Package decklist loads the on-disk deck format: card quantities
// plus a trailing declared-energy line. It parses and enforces the
// minimum deck size only; fuller legality checks (copy limits, banned
// cards) belong to validators outside the engine.
package decklist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signalnine/pokebattle/pkg/catalog"
	"github.com/signalnine/pokebattle/pkg/state"
)

// MinimumSize is the rulebook's smallest legal deck. Decks under this
// size are accepted by the engine itself but Parse rejects them,
// matching this package's narrower "well-formed input" contract
// rather than the engine's permissive one.
const MinimumSize = 20

// Parse reads the canonical decklist text format from r:
//
//	<count> <CardID>
//	<count> <CardID>
//	...
//	<EnergyType>,<EnergyType>,...
//
// Blank lines and lines starting with "//" are ignored. The final
// non-blank, non-comment line is the comma-separated declared energy
// pool; every line before it is a card-quantity line.
func Parse(r io.Reader) (state.Deck, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return state.Deck{}, fmt.Errorf("decklist: read: %w", err)
	}
	if len(lines) < 2 {
		return state.Deck{}, fmt.Errorf("decklist: need at least one card line and an energy line, got %d lines", len(lines))
	}

	energyTypes, err := parseEnergyLine(lines[len(lines)-1])
	if err != nil {
		return state.Deck{}, err
	}

	var cards []catalog.Card
	for _, line := range lines[:len(lines)-1] {
		count, id, err := parseCardLine(line)
		if err != nil {
			return state.Deck{}, err
		}
		card, err := lookupCard(id)
		if err != nil {
			return state.Deck{}, err
		}
		for i := 0; i < count; i++ {
			cards = append(cards, card)
		}
	}

	if len(cards) < MinimumSize {
		return state.Deck{}, fmt.Errorf("decklist: %d cards is below the minimum deck size of %d", len(cards), MinimumSize)
	}

	return state.Deck{Cards: cards, EnergyTypes: energyTypes}, nil
}

// lookupCard recovers CardByID's panic-on-unknown-id contract into an
// error: unlike the Move Generator's own output (always a known id by
// construction), a decklist comes from untrusted text and an unknown
// id here is bad input, not an engine bug.
func lookupCard(id catalog.CardID) (card catalog.Card, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decklist: unknown card id %q", id)
		}
	}()
	return catalog.CardByID(id), nil
}

func parseCardLine(line string) (int, catalog.CardID, error) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("decklist: malformed card line %q, want \"<count> <CardID>\"", line)
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, "", fmt.Errorf("decklist: malformed quantity in line %q: %w", line, err)
	}
	return count, catalog.CardID(strings.TrimSpace(parts[1])), nil
}

func parseEnergyLine(line string) ([]catalog.EnergyType, error) {
	names := strings.Split(line, ",")
	types := make([]catalog.EnergyType, 0, len(names))
	for _, name := range names {
		e, ok := catalog.EnergyTypeFromString(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("decklist: unknown energy type %q in trailing energy line", name)
		}
		types = append(types, e)
	}
	return types, nil
}
