package tier

type Ticket struct {
	ID      string
	Numbers []int
}

type Outcome struct {
	TicketID string
	Tier     int
	Matched  int
	Amount   int64
}

// Settlement is the result of settling every ticket of a round.
type Settlement struct {
	// Outcomes has one entry per ticket, in the same order as the input.
	Outcomes []Outcome

	// Winners counts the winning tickets of every tier of the table.
	Winners map[int]int
}

// WinnersCount returns the number of winning tickets.
func (s Settlement) WinnersCount() int {
	total := 0
	for _, n := range s.Winners {
		total += n
	}

	return total
}

// Settle runs in two phases. The first phase computes the tier of every ticket
// and counts winners per tier. The second phase resolves payouts using the
// completed counters, so a pooled tier is always divided by its final number
// of winners.
func (t Table) Settle(tickets []Ticket, drawn []int, bonus int) Settlement {
	winners := map[int]int{}
	for _, tier := range t.Tiers() {
		winners[tier] = 0
	}

	outcomes := make([]Outcome, len(tickets))
	for i, ticket := range tickets {
		tier, matched := t.Tier(ticket.Numbers, drawn, bonus)
		outcomes[i] = Outcome{TicketID: ticket.ID, Tier: tier, Matched: matched}
		if tier != NoWin {
			winners[tier]++
		}
	}

	for i := range outcomes {
		if outcomes[i].Tier != NoWin {
			outcomes[i].Amount = t.Payout(outcomes[i].Tier, winners[outcomes[i].Tier])
		}
	}

	return Settlement{Outcomes: outcomes, Winners: winners}
}
