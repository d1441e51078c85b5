package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

// TicketAward is the settlement outcome for a single ticket.
type TicketAward struct {
	Ticket     *entities.Ticket
	MatchCount int
	Amount     decimal.Decimal
}

// SettlementPlan is the pure result of distributing a jackpot over the
// tickets of one draw. It contains no side effects; the draw service applies
// it inside a unit of work.
type SettlementPlan struct {
	Awards         []TicketAward
	Tiers          []interfaces.TierResult
	TotalPaid      decimal.Decimal
	RolledOver     bool
	RolloverAmount decimal.Decimal
}

// DistributePrizes computes match counts for every ticket and splits each
// configured tier's pool evenly across the tickets in that tier.
//
// Per-ticket amounts are rounded down to currency precision so a tier never
// pays out more than its pool; the rounding remainder stays with the house.
// Zero winners at the top tier is a business outcome, not an error: the
// top-tier pool is reported as the rollover amount for the operator to carry
// into the next draw.
func DistributePrizes(jackpot decimal.Decimal, tickets []*entities.Ticket, winningNumbers []int64, rules entities.GameRules) *SettlementPlan {
	plan := &SettlementPlan{
		Awards:         make([]TicketAward, 0, len(tickets)),
		TotalPaid:      decimal.Zero,
		RolloverAmount: decimal.Zero,
	}

	// Compute match counts, then group by tier.
	for _, ticket := range tickets {
		plan.Awards = append(plan.Awards, TicketAward{
			Ticket:     ticket,
			MatchCount: entities.MatchCount(ticket.Numbers, winningNumbers),
			Amount:     decimal.Zero,
		})
	}
	byMatches := make(map[int][]*TicketAward)
	for i := range plan.Awards {
		award := &plan.Awards[i]
		byMatches[award.MatchCount] = append(byMatches[award.MatchCount], award)
	}

	// Settle payable tiers in descending match order.
	tiers := make([]int, 0, len(rules.TierShares))
	for tier := range rules.TierShares {
		tiers = append(tiers, tier)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiers)))

	for _, tier := range tiers {
		if tier < rules.MinPayableTier {
			continue
		}
		share := rules.TierShares[tier]
		pool := jackpot.Mul(share).Round(2)
		winners := byMatches[tier]

		result := interfaces.TierResult{
			MatchCount:  tier,
			Share:       share,
			Pool:        pool,
			WinnerCount: len(winners),
			PerTicket:   decimal.Zero,
		}

		if len(winners) == 0 {
			if tier == rules.TopTier() {
				plan.RolledOver = true
				plan.RolloverAmount = pool
			}
			plan.Tiers = append(plan.Tiers, result)
			continue
		}

		perTicket := pool.Div(decimal.NewFromInt(int64(len(winners)))).RoundDown(2)
		result.PerTicket = perTicket
		for _, w := range winners {
			w.Amount = perTicket
			plan.TotalPaid = plan.TotalPaid.Add(perTicket)
		}
		plan.Tiers = append(plan.Tiers, result)
	}

	return plan
}
