// selfplay - a battle engine self-play driver
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalnine/pokebattle/internal/tlog"
	"github.com/signalnine/pokebattle/pkg/agent"
	"github.com/signalnine/pokebattle/pkg/decklist"
	"github.com/signalnine/pokebattle/pkg/driver"
	"github.com/signalnine/pokebattle/pkg/simulation"
	"github.com/signalnine/pokebattle/pkg/state"
)

func main() {
	numGames := flag.Int("games", 1, "Number of matches to simulate")
	deckDir := flag.String("decks", "decks", "Directory containing decklist files")
	logLevel := flag.String("log", "MATCH", "Log level (META, MATCH, TURN, ACTION, CARD)")
	seed := flag.Int64("seed", 1, "RNG seed; a fixed seed makes the whole series reproducible")
	flag.Parse()

	tlog.SetLevel(tlog.ParseLevel(*logLevel))

	deckFiles, err := simulation.GetDecks(*deckDir)
	if err != nil || len(deckFiles) < 2 {
		fmt.Fprintf(os.Stderr, "selfplay: need at least two decklist files under %q: %v\n", *deckDir, err)
		os.Exit(1)
	}
	tlog.LogMeta("found %d decklist files", len(deckFiles))

	rng := rand.New(rand.NewSource(*seed))
	deckAFile := deckFiles[rng.Intn(len(deckFiles))]
	deckBFile := pickDifferentDeck(rng, deckFiles, deckAFile)

	deckA, nameA, err := loadDeck(deckAFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "selfplay: %v\n", err)
		os.Exit(1)
	}
	deckB, nameB, err := loadDeck(deckBFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "selfplay: %v\n", err)
		os.Exit(1)
	}

	a := agent.NewGreedyAgent(deckA.Cards)
	b := agent.NewGreedyAgent(deckB.Cards)

	tlog.LogMeta("simulating %d matches: %s vs %s", *numGames, nameA, nameB)
	results, err := driver.PlaySeries(*numGames, a, b, nameA, nameB, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "selfplay: series aborted: %v\n", err)
		os.Exit(1)
	}
	results.PrintTopResults()
}

func pickDifferentDeck(rng *rand.Rand, files []string, exclude string) string {
	if len(files) == 1 {
		return files[0]
	}
	for {
		candidate := files[rng.Intn(len(files))]
		if candidate != exclude {
			return candidate
		}
	}
}

// loadDeck parses path into a state.Deck, using the file's base name
// (minus extension) as its display name for the standings table.
func loadDeck(path string) (state.Deck, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return state.Deck{}, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	deck, err := decklist.Parse(f)
	if err != nil {
		return state.Deck{}, "", fmt.Errorf("parse %s: %w", path, err)
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return deck, name, nil
}
