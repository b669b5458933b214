package state

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/signalnine/pokebattle/pkg/catalog"
)

// Hash returns a deterministic fingerprint of s, suitable for an MCTS
// transposition table. Two states with Equal(other) == true always
// have the same Hash.
func (s *State) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.canonicalString()))
	return h.Sum64()
}

// Equal reports whether s and other represent the same logical match
// state (ignoring cow sharing bookkeeping, which is never observable).
func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	return s.canonicalString() == other.canonicalString()
}

// canonicalString renders s into a deterministic, fully-ordered
// textual form: turn effects iterate by sorted key then insertion
// order within the key.
func (s *State) canonicalString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "winner=%s|points=%v|turn=%d|cp=%d|energy=%s|support=%v|retreated=%v\n",
		outcomeString(s.Winner), s.Points, s.TurnCount, s.CurrentPlayer,
		energyPtrString(s.CurrentEnergy), s.HasPlayedSupport, s.HasRetreated)

	for p := 0; p < 2; p++ {
		fmt.Fprintf(&b, "hand[%d]=%s\n", p, cardIDs(s.hands[p].get()))
		fmt.Fprintf(&b, "deck[%d]=%s\n", p, cardIDs(s.decks[p].get()))
		fmt.Fprintf(&b, "discard[%d]=%s\n", p, cardIDs(s.discardPiles[p].get()))
		fmt.Fprintf(&b, "revealedTop[%d]=%s\n", p, revealedTopString(s.revealedTop[p]))
		for slot, pc := range s.InPlay[p] {
			fmt.Fprintf(&b, "inplay[%d][%d]=%s\n", p, slot, playedCardString(pc))
		}
	}

	for _, frame := range s.moveGenerationStack.get() {
		fmt.Fprintf(&b, "stack+=actor=%d", frame.Actor)
		for _, a := range frame.Actions {
			fmt.Fprintf(&b, " %s", actionString(a))
		}
		b.WriteString("\n")
	}

	effects := s.turnEffects.get()
	keys := make([]int, 0, len(effects))
	for k := range effects {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "turnEffect[%d]=%s\n", k, cardIDs(effects[uint8(k)]))
	}

	return b.String()
}

func actionString(a Action) string {
	attach := make([]string, len(a.AttachList))
	for i, att := range a.AttachList {
		attach[i] = fmt.Sprintf("%s@%d", att.Energy, att.SlotIndex)
	}
	damage := make([]string, len(a.Damage))
	for i, d := range a.Damage {
		damage[i] = fmt.Sprintf("%d@%d", d.Amount, d.SlotIndex)
	}
	return fmt.Sprintf("%s(card=%s slot=%d atk=%d attach=[%s] dmg=[%s] heal=%d@%d)",
		a.Kind, a.Card.ID, a.SlotIndex, a.AttackIndex,
		strings.Join(attach, ","), strings.Join(damage, ","), a.HealAmount, a.HealSlotIndex)
}

func outcomeString(o *Outcome) string {
	if o == nil {
		return "none"
	}
	if o.Tie {
		return "tie"
	}
	return fmt.Sprintf("win(%d)", o.Player)
}

func revealedTopString(c *catalog.Card) string {
	if c == nil {
		return "none"
	}
	return string(c.ID)
}

func energyPtrString(e *catalog.EnergyType) string {
	if e == nil {
		return "none"
	}
	return e.String()
}

func cardIDs(cards []catalog.Card) string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = string(c.ID)
	}
	return strings.Join(ids, ",")
}

func playedCardString(pc *PlayedCard) string {
	if pc == nil {
		return "empty"
	}
	energies := make([]string, len(pc.AttachedEnergy))
	for i, e := range pc.AttachedEnergy {
		energies[i] = e.String()
	}
	behind := make([]string, len(pc.CardsBehind))
	for i, c := range pc.CardsBehind {
		behind[i] = string(c.ID)
	}
	return fmt.Sprintf("%s hp=%d energy=[%s] tool=%s played=%v ability=%v status=%v,%v,%v behind=[%s]",
		pc.Underlying.ID, pc.RemainingHP, strings.Join(energies, ","), pc.AttachedTool,
		pc.PlayedThisTurn, pc.AbilityUsed, pc.Poisoned, pc.Paralyzed, pc.Asleep,
		strings.Join(behind, ","))
}
