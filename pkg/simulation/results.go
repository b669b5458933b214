// Package simulation tracks win/loss outcomes across a self-play
// series and renders them as a sorted standings table.
package simulation

import (
	"sort"

	"github.com/signalnine/pokebattle/internal/tlog"
)

// Result is one deck's record across a series of matches.
type Result struct {
	Name   string
	Wins   int
	Losses int
	Ties   int
}

// WinPercentage is 100 * Wins / (Wins+Losses+Ties), ignoring ties in the
// numerator the way a tournament standings table does.
func (r Result) WinPercentage() float64 {
	total := r.Wins + r.Losses + r.Ties
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total) * 100
}

// Results tracks every deck's record across a self-play series.
type Results struct {
	results []Result
}

// NewResults returns an empty tracker.
func NewResults() *Results {
	return &Results{}
}

func (r *Results) entry(deckName string) *Result {
	for i := range r.results {
		if r.results[i].Name == deckName {
			return &r.results[i]
		}
	}
	r.results = append(r.results, Result{Name: deckName})
	return &r.results[len(r.results)-1]
}

// AddWin records a win for deckName.
func (r *Results) AddWin(deckName string) { r.entry(deckName).Wins++ }

// AddLoss records a loss for deckName.
func (r *Results) AddLoss(deckName string) { r.entry(deckName).Losses++ }

// AddTie records a turn-limit draw for deckName.
func (r *Results) AddTie(deckName string) { r.entry(deckName).Ties++ }

// SortByWinPercentage orders results by win percentage, descending.
func (r *Results) SortByWinPercentage() {
	sort.Slice(r.results, func(i, j int) bool {
		return r.results[i].WinPercentage() > r.results[j].WinPercentage()
	})
}

// GetResults returns a copy of every tracked result.
func (r *Results) GetResults() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// GetDeckResult returns the tracked record for deckName, if any.
func (r *Results) GetDeckResult(deckName string) (Result, bool) {
	for _, result := range r.results {
		if result.Name == deckName {
			return result, true
		}
	}
	return Result{}, false
}

// PrintTopResults logs the standings table, best win rate first.
func (r *Results) PrintTopResults() {
	r.SortByWinPercentage()
	for _, result := range r.results {
		tlog.LogMeta("Deck: %s Wins: %d Losses: %d Ties: %d Win Rate: %.2f%%",
			result.Name, result.Wins, result.Losses, result.Ties, result.WinPercentage())
	}
}
