package pointsdomain

import (
	"time"

	"github.com/google/uuid"
)

// Source tags why points were granted.
type Source string

const (
	SourceClassMilestone Source = "CLASS_MILESTONE"
	SourceSpecialtyAward Source = "SPECIALTY_AWARD"
	SourceManual         Source = "MANUAL"
)

// IsValid checks if the source is a known tag.
func (s Source) IsValid() bool {
	switch s {
	case SourceClassMilestone, SourceSpecialtyAward, SourceManual:
		return true
	default:
		return false
	}
}

// TopicPointsAwardedV1 is published after every committed ledger entry.
const TopicPointsAwardedV1 = "points.awarded.v1"

// PointsAwardedPayloadV1 is the body of TopicPointsAwardedV1.
type PointsAwardedPayloadV1 struct {
	EntryID    uuid.UUID `json:"entry_id"`
	UserID     uuid.UUID `json:"user_id"`
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	Source     Source    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Balance reports the ledger total next to the denormalized counter.
type Balance struct {
	UserID  uuid.UUID `json:"user_id"`
	Ledger  int       `json:"ledger"`
	Counter int       `json:"counter"`
	Drift   int       `json:"drift"`
}

// NewBalance computes Drift as counter minus ledger.
func NewBalance(userID uuid.UUID, ledger, counter int) Balance {
	return Balance{UserID: userID, Ledger: ledger, Counter: counter, Drift: counter - ledger}
}

// CumulativePoint is one step of a running total.
type CumulativePoint struct {
	At    time.Time
	Total int
}

// Cumulative folds chronological amounts into a running total.
func Cumulative(at []time.Time, amounts []int) []CumulativePoint {
	out := make([]CumulativePoint, 0, len(amounts))
	total := 0
	for i, a := range amounts {
		total += a
		out = append(out, CumulativePoint{At: at[i], Total: total})
	}
	return out
}
