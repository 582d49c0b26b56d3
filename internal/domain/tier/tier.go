// Package tier maps a ticket to a prize tier and resolves the payout of every
// winning ticket of a round.
package tier

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/luckywalk/backend/config"
	"golang.org/x/exp/slices"
)

// NoWin is the tier of a ticket which does not win anything.
const NoWin = 0

type Kind int

const (
	// Fixed tiers pay a constant amount to every winner.
	Fixed Kind = iota

	// Pooled tiers split a prize pool evenly among all winners of the tier,
	// floored to the currency unit.
	Pooled
)

type Prize struct {
	Kind   Kind
	Amount int64
}

// Rule assigns Tier to a ticket which matches exactly Matched numbers. If
// Bonus is true, the ticket must also contain the bonus number.
type Rule struct {
	Matched int
	Bonus   bool
	Tier    int
}

// Table is an ordered list of rules together with the prize of every tier.
// The first matching rule wins.
type Table struct {
	rules  []Rule
	prizes map[int]Prize
}

func NewTable(rules []Rule, prizes map[int]Prize) (Table, error) {
	for _, r := range rules {
		if r.Tier <= NoWin {
			return Table{}, fmt.Errorf("invalid tier %d", r.Tier)
		}

		if _, ok := prizes[r.Tier]; !ok {
			return Table{}, fmt.Errorf("tier %d has no prize", r.Tier)
		}
	}

	return Table{rules: rules, prizes: prizes}, nil
}

var fiveTierRules = []Rule{
	{Matched: 6, Tier: 1},
	{Matched: 5, Bonus: true, Tier: 2},
	{Matched: 5, Tier: 3},
	{Matched: 4, Tier: 4},
	{Matched: 3, Tier: 5},
}

// FiveTier returns the scale 6→1, 5+bonus→2, 5→3, 4→4, 3→5.
func FiveTier(prizes map[int]Prize) (Table, error) {
	return NewTable(fiveTierRules, prizes)
}

// SixTier extends the five tier scale with 2→6.
func SixTier(prizes map[int]Prize) (Table, error) {
	rules := append(slices.Clone(fiveTierRules), Rule{Matched: 2, Tier: 6})
	return NewTable(rules, prizes)
}

// FromConfig builds a table from its configuration.
func FromConfig(cfg config.TierConfigs) (Table, error) {
	prizes := map[int]Prize{}
	for key, amount := range cfg.Amounts {
		tier, err := strconv.Atoi(key)
		if err != nil {
			return Table{}, fmt.Errorf("invalid tier key %q", key)
		}

		kind := Fixed
		if slices.Contains(cfg.PooledTiers, tier) {
			kind = Pooled
		}

		prizes[tier] = Prize{Kind: kind, Amount: amount}
	}

	switch cfg.Scale {
	case "five":
		return FiveTier(prizes)
	case "six":
		return SixTier(prizes)
	default:
		return Table{}, fmt.Errorf("unknown tier scale %q", cfg.Scale)
	}
}

// Tiers returns all winning tiers of the table, best first.
func (t Table) Tiers() []int {
	tiers := make([]int, 0, len(t.rules))
	for _, r := range t.rules {
		if !slices.Contains(tiers, r.Tier) {
			tiers = append(tiers, r.Tier)
		}
	}

	sort.Ints(tiers)
	return tiers
}

// Match counts the distinct chosen numbers which are drawn. A number repeated
// in chosen is counted once.
func Match(chosen, drawn []int) int {
	matched := 0
	seen := make(map[int]struct{}, len(chosen))
	for _, n := range chosen {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		if slices.Contains(drawn, n) {
			matched++
		}
	}

	return matched
}

// Tier returns the tier and the matched count of the chosen numbers. A bonus
// of zero means the draw has no bonus number.
func (t Table) Tier(chosen, drawn []int, bonus int) (int, int) {
	matched := Match(chosen, drawn)
	hasBonus := bonus != 0 && slices.Contains(chosen, bonus)

	for _, r := range t.rules {
		if r.Matched != matched {
			continue
		}

		if r.Bonus && !hasBonus {
			continue
		}

		return r.Tier, matched
	}

	return NoWin, matched
}

// Payout returns the amount paid to one winner of the tier, given the total
// number of winners of that tier in the round.
func (t Table) Payout(tier, winners int) int64 {
	prize, ok := t.prizes[tier]
	if !ok {
		return 0
	}

	if prize.Kind == Pooled {
		if winners <= 0 {
			return 0
		}

		return prize.Amount / int64(winners)
	}

	return prize.Amount
}
