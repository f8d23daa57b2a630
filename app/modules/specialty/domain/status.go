package specialtydomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SpecialtyStatus is a member's state on a specialty.
type SpecialtyStatus string

const (
	SpecialtyInProgress      SpecialtyStatus = "IN_PROGRESS"
	SpecialtyWaitingApproval SpecialtyStatus = "WAITING_APPROVAL"
	SpecialtyCompleted       SpecialtyStatus = "COMPLETED"
)

// IsValid checks if the status is a known value.
func (s SpecialtyStatus) IsValid() bool {
	switch s {
	case SpecialtyInProgress, SpecialtyWaitingApproval, SpecialtyCompleted:
		return true
	}
	return false
}

// Staged reports whether the specialty already left IN_PROGRESS. Staged
// specialties are never moved back by the completion check.
func (s SpecialtyStatus) Staged() bool {
	return s == SpecialtyWaitingApproval || s == SpecialtyCompleted
}

// RequirementStatus is the verdict on a member's answer.
type RequirementStatus string

const (
	RequirementPending  RequirementStatus = "PENDING"
	RequirementApproved RequirementStatus = "APPROVED"
	RequirementRejected RequirementStatus = "REJECTED"
)

// IsValid checks if the status is a known value.
func (s RequirementStatus) IsValid() bool {
	switch s {
	case RequirementPending, RequirementApproved, RequirementRejected:
		return true
	}
	return false
}

// ParseVerdict accepts any casing.
func ParseVerdict(s string) (RequirementStatus, bool) {
	v := RequirementStatus(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.IsValid()
}

// RequirementType is how a requirement is answered.
type RequirementType string

const (
	RequirementText RequirementType = "TEXT"
	RequirementFile RequirementType = "FILE"
)

// ParseRequirementType accepts any casing and defaults to TEXT.
func ParseRequirementType(s string) (RequirementType, bool) {
	switch t := RequirementType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return RequirementText, true
	case RequirementText, RequirementFile:
		return t, true
	}
	return "", false
}

// TopicSpecialtyStatusChangedV1 is published after a member's specialty status changes.
const TopicSpecialtyStatusChangedV1 = "specialty.status_changed.v1"

// SpecialtyStatusChangedPayloadV1 is the body of specialty.status_changed.v1.
// From is empty when the row did not exist before.
type SpecialtyStatusChangedPayloadV1 struct {
	UserID      uuid.UUID       `json:"user_id"`
	ClubID      *uuid.UUID      `json:"club_id,omitempty"`
	SpecialtyID uuid.UUID       `json:"specialty_id"`
	From        SpecialtyStatus `json:"from,omitempty"`
	To          SpecialtyStatus `json:"to"`
	ActorID     uuid.UUID       `json:"actor_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
