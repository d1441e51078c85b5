package entities

// Rank is a status label derived from a user's lifetime ticket count.
// It is recomputed on read; the participation count is the source of truth.
type Rank string

const (
	RankNew     Rank = "New"
	RankSilver  Rank = "Silver"
	RankGold    Rank = "Gold"
	RankDiamond Rank = "Diamond"
)

// RankThresholds holds the ascending participation thresholds per rank.
// New is implicit at zero.
type RankThresholds struct {
	Silver  int
	Gold    int
	Diamond int
}

// DefaultRankThresholds is the canonical threshold table. The legacy UI
// carried a parallel "VIP" tier; it is treated as a display alias of
// Diamond, not a separate rank.
var DefaultRankThresholds = RankThresholds{
	Silver:  10,
	Gold:    100,
	Diamond: 500,
}

// RankForParticipation returns the highest rank whose threshold is <= count.
func RankForParticipation(count int, t RankThresholds) Rank {
	switch {
	case count >= t.Diamond:
		return RankDiamond
	case count >= t.Gold:
		return RankGold
	case count >= t.Silver:
		return RankSilver
	default:
		return RankNew
	}
}

// Order returns the position of the rank in ascending tier order.
func (r Rank) Order() int {
	switch r {
	case RankSilver:
		return 1
	case RankGold:
		return 2
	case RankDiamond:
		return 3
	default:
		return 0
	}
}

// DisplayLabel returns the user-facing label. Diamond keeps its legacy
// "VIP" alias for display surfaces that still use it.
func (r Rank) DisplayLabel(useLegacyVIPAlias bool) string {
	if r == RankDiamond && useLegacyVIPAlias {
		return "VIP"
	}
	return string(r)
}
