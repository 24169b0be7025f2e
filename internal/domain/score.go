package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoreReason is the typed trigger recorded with every score-history entry.
type ScoreReason string

const (
	ReasonNewEvidence        ScoreReason = "new_evidence"
	ReasonEvidenceRemoved    ScoreReason = "evidence_removed"
	ReasonDisputeCreated     ScoreReason = "dispute_created"
	ReasonDisputeResolved    ScoreReason = "dispute_resolved"
	ReasonCredibilityUpdated ScoreReason = "credibility_updated"
	ReasonManual             ScoreReason = "manual"
	ReasonScheduled          ScoreReason = "scheduled"
	ReasonSystem             ScoreReason = "system"
)

func ValidScoreReason(r string) bool {
	switch ScoreReason(r) {
	case ReasonNewEvidence, ReasonEvidenceRemoved, ReasonDisputeCreated,
		ReasonDisputeResolved, ReasonCredibilityUpdated, ReasonManual,
		ReasonScheduled, ReasonSystem:
		return true
	}
	return false
}

// VeracityScore is the single current score record per mutable claim.
// Exactly one row exists per claim; the scorer upserts it guarded by
// Revision so that concurrent recomputes never clobber each other.
type VeracityScore struct {
	ClaimID           uuid.UUID  `json:"claim_id"`
	Score             float64    `json:"score"`
	IntervalLow       *float64   `json:"interval_low,omitempty"`
	IntervalHigh      *float64   `json:"interval_high,omitempty"`
	EvidenceWeightSum float64    `json:"evidence_weight_sum"`
	SupportingWeight  float64    `json:"supporting_weight"`
	RefutingWeight    float64    `json:"refuting_weight"`
	EvidenceCount     int        `json:"evidence_count"`
	ConsensusScore    float64    `json:"consensus_score"`
	OpenDisputeCount  int        `json:"open_dispute_count"`
	DisputeImpact     float64    `json:"dispute_impact"`
	DecayFactor       float64    `json:"decay_factor"`
	Method            string     `json:"method"`
	Revision          int        `json:"revision"`
	CalculatedAt      time.Time  `json:"calculated_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

// ScoreHistory is an append-only audit entry written whenever a claim's
// score moves by more than the history threshold.
type ScoreHistory struct {
	ID          uuid.UUID   `json:"id"`
	ClaimID     uuid.UUID   `json:"claim_id"`
	OldScore    float64     `json:"old_score"`
	NewScore    float64     `json:"new_score"`
	Delta       float64     `json:"delta"`
	Reason      ScoreReason `json:"reason"`
	TriggeredBy *uuid.UUID  `json:"triggered_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
