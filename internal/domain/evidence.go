package domain

import (
	"time"

	"github.com/google/uuid"
)

type EvidenceType string

const (
	EvidenceSupporting EvidenceType = "supporting"
	EvidenceRefuting   EvidenceType = "refuting"
	EvidenceNeutral    EvidenceType = "neutral"
	EvidenceClarifying EvidenceType = "clarifying"
)

func ValidEvidenceType(e string) bool {
	switch EvidenceType(e) {
	case EvidenceSupporting, EvidenceRefuting, EvidenceNeutral, EvidenceClarifying:
		return true
	}
	return false
}

type PeerReviewStatus string

const (
	PeerReviewPending  PeerReviewStatus = "pending"
	PeerReviewAccepted PeerReviewStatus = "accepted"
	PeerReviewDisputed PeerReviewStatus = "disputed"
	PeerReviewRejected PeerReviewStatus = "rejected"
)

func ValidPeerReviewStatus(s string) bool {
	switch PeerReviewStatus(s) {
	case PeerReviewPending, PeerReviewAccepted, PeerReviewDisputed, PeerReviewRejected:
		return true
	}
	return false
}

// Multiplier scales an evidence item's effective weight by its peer-review
// outcome. Accepted evidence gets a boost; the final weight is still
// clamped to [0,1] by the weighting function.
func (s PeerReviewStatus) Multiplier() float64 {
	switch s {
	case PeerReviewAccepted:
		return 1.2
	case PeerReviewDisputed:
		return 0.8
	case PeerReviewRejected:
		return 0.5
	default:
		return 1.0
	}
}

// Evidence is a weighted, sourced data point attached to exactly one claim.
// Exactly one of TargetNodeID/TargetEdgeID must be set.
type Evidence struct {
	ID                uuid.UUID        `json:"id"`
	TargetNodeID      *uuid.UUID       `json:"target_node_id,omitempty"`
	TargetEdgeID      *uuid.UUID       `json:"target_edge_id,omitempty"`
	SourceID          uuid.UUID        `json:"source_id"`
	SubmittedBy       uuid.UUID        `json:"submitted_by"`
	Type              EvidenceType     `json:"type"`
	Description       string           `json:"description,omitempty"`
	BaseWeight        float64          `json:"base_weight"`
	Confidence        float64          `json:"confidence"`
	TemporalRelevance float64          `json:"temporal_relevance"`
	DecayRate         float64          `json:"decay_rate"`
	RelevantDate      *time.Time       `json:"relevant_date,omitempty"`
	Verified          bool             `json:"verified"`
	PeerReview        PeerReviewStatus `json:"peer_review"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ClaimID resolves the single claim this evidence targets. Callers must
// have validated the exactly-one-target invariant first.
func (e *Evidence) ClaimID() uuid.UUID {
	if e.TargetNodeID != nil {
		return *e.TargetNodeID
	}
	if e.TargetEdgeID != nil {
		return *e.TargetEdgeID
	}
	return uuid.Nil
}

// HasExactlyOneTarget reports whether the evidence attaches to exactly one
// claim, never both a node and an edge.
func (e *Evidence) HasExactlyOneTarget() bool {
	return (e.TargetNodeID != nil) != (e.TargetEdgeID != nil)
}
