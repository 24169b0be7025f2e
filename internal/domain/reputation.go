package domain

import (
	"time"

	"github.com/google/uuid"
)

// Component weights for the overall reputation blend.
const (
	WeightEvidenceQuality   = 0.40
	WeightConsensusAccuracy = 0.30
	WeightProcessCompletion = 0.20
	WeightDisputeResolution = 0.10
)

// Vote weight bounds. A contributor with no reputation record votes at
// DefaultVoteWeight.
const (
	MinVoteWeight     = 0.1
	MaxVoteWeight     = 2.0
	DefaultVoteWeight = 1.0
)

// ReputationTier is a purely informational label. It carries no
// authorization power and must never gate any permission; the only
// behavioral output of reputation is the vote weight.
type ReputationTier string

const (
	TierNew         ReputationTier = "new"
	TierContributor ReputationTier = "contributor"
	TierActive      ReputationTier = "active"
	TierVeteran     ReputationTier = "veteran"
)

func ComputeTier(overall float64) ReputationTier {
	switch {
	case overall > 0.85:
		return TierVeteran
	case overall > 0.60:
		return TierActive
	case overall > 0.30:
		return TierContributor
	default:
		return TierNew
	}
}

// VoteWeightFor converts an overall reputation to a bounded voting
// multiplier: clamp(0.5 + overall*1.5, 0.1, 2.0).
func VoteWeightFor(overall float64) float64 {
	w := 0.5 + overall*1.5
	if w < MinVoteWeight {
		return MinVoteWeight
	}
	if w > MaxVoteWeight {
		return MaxVoteWeight
	}
	return w
}

// OverallReputation blends the four component scores.
func OverallReputation(evidenceQuality, consensusAccuracy, processCompletion, disputeResolution float64) float64 {
	return WeightEvidenceQuality*evidenceQuality +
		WeightConsensusAccuracy*consensusAccuracy +
		WeightProcessCompletion*processCompletion +
		WeightDisputeResolution*disputeResolution
}

// ContributorReputation tracks a contributor's historical quality and
// the vote weight derived from it.
type ContributorReputation struct {
	UserID            uuid.UUID      `json:"user_id"`
	EvidenceQuality   float64        `json:"evidence_quality"`
	ConsensusAccuracy float64        `json:"consensus_accuracy"`
	ProcessCompletion float64        `json:"process_completion"`
	DisputeResolution float64        `json:"dispute_resolution"`
	Overall           float64        `json:"overall"`
	VoteWeight        float64        `json:"vote_weight"`
	Tier              ReputationTier `json:"tier"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
