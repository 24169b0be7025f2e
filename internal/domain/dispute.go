package domain

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeOpen      DisputeStatus = "open"
	DisputeResolved  DisputeStatus = "resolved"
	DisputeWithdrawn DisputeStatus = "withdrawn"
)

func ValidDisputeStatus(s string) bool {
	switch DisputeStatus(s) {
	case DisputeOpen, DisputeResolved, DisputeWithdrawn:
		return true
	}
	return false
}

// Dispute is an open objection against a claim. Open disputes penalize
// the veracity score and hard-block promotion regardless of it.
type Dispute struct {
	ID         uuid.UUID     `json:"id"`
	ClaimID    uuid.UUID     `json:"claim_id"`
	RaisedBy   uuid.UUID     `json:"raised_by"`
	Reason     string        `json:"reason"`
	Status     DisputeStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
}
