package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GameRules captures the configured parameters the settlement core runs
// under. Values are loaded once from configuration and passed into services,
// the way a draw captures its settings at creation.
type GameRules struct {
	PickCount        int
	MaxNumber        int64
	TicketPrice      decimal.Decimal
	PerDrawTicketCap int
	LockWindow       time.Duration

	// TierShares maps a match count to its share of the jackpot pool.
	// The jackpot is the distributable pool, already net of house edge.
	TierShares     map[int]decimal.Decimal
	MinPayableTier int
	HouseEdge      decimal.Decimal

	RankThresholds RankThresholds

	ReferralBonus          decimal.Decimal
	MinQualifyingDeposit   decimal.Decimal
	MilestoneBonus         decimal.Decimal
	MilestoneReferralCount int
}

// DefaultGameRules returns the stock rule set.
func DefaultGameRules() GameRules {
	return GameRules{
		PickCount:        DefaultPickCount,
		MaxNumber:        DefaultMaxNumber,
		TicketPrice:      decimal.NewFromInt(100),
		PerDrawTicketCap: 10,
		LockWindow:       60 * time.Second,
		TierShares: map[int]decimal.Decimal{
			6: decimal.NewFromFloat(0.50),
			5: decimal.NewFromFloat(0.30),
			4: decimal.NewFromFloat(0.20),
		},
		MinPayableTier:         4,
		HouseEdge:              decimal.NewFromFloat(0.10),
		RankThresholds:         DefaultRankThresholds,
		ReferralBonus:          decimal.NewFromInt(100),
		MinQualifyingDeposit:   decimal.NewFromInt(1000),
		MilestoneBonus:         decimal.NewFromInt(1000),
		MilestoneReferralCount: 5,
	}
}

// Validate checks internal consistency of the rule set.
func (r GameRules) Validate() error {
	if r.PickCount <= 0 || r.MaxNumber < int64(r.PickCount) {
		return fmt.Errorf("number universe [1, %d] cannot supply %d distinct picks", r.MaxNumber, r.PickCount)
	}
	if !r.TicketPrice.IsPositive() {
		return fmt.Errorf("ticket price must be positive, got %s", r.TicketPrice)
	}
	if r.PerDrawTicketCap < 1 {
		return fmt.Errorf("per-draw ticket cap must be at least 1, got %d", r.PerDrawTicketCap)
	}

	// The jackpot is already net of house edge, so shares are fractions of
	// the distributable pool and may sum to at most 1.
	total := decimal.Zero
	for tier, share := range r.TierShares {
		if tier < r.MinPayableTier || tier > r.PickCount {
			return fmt.Errorf("tier %d is outside the payable range [%d, %d]", tier, r.MinPayableTier, r.PickCount)
		}
		if share.IsNegative() {
			return fmt.Errorf("tier %d share cannot be negative", tier)
		}
		total = total.Add(share)
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tier shares sum to %s, exceeding the distributable pool", total)
	}
	if r.HouseEdge.IsNegative() || r.HouseEdge.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("house edge must be in [0, 1), got %s", r.HouseEdge)
	}

	t := r.RankThresholds
	if !(0 < t.Silver && t.Silver < t.Gold && t.Gold < t.Diamond) {
		return fmt.Errorf("rank thresholds must be strictly ascending, got %d/%d/%d", t.Silver, t.Gold, t.Diamond)
	}

	return nil
}

// TopTier returns the match count of the highest configured prize tier.
func (r GameRules) TopTier() int {
	return r.PickCount
}
