package domain

import (
	"time"

	"github.com/google/uuid"
)

// EligibilityWeights are the configurable component weights for the
// promotion eligibility score. They must sum to 1.0.
type EligibilityWeights struct {
	Methodology       float64 `json:"methodology"`
	Consensus         float64 `json:"consensus"`
	EvidenceQuality   float64 `json:"evidence_quality"`
	DisputeResolution float64 `json:"dispute_resolution"`
}

func DefaultEligibilityWeights() EligibilityWeights {
	return EligibilityWeights{
		Methodology:       0.30,
		Consensus:         0.30,
		EvidenceQuality:   0.25,
		DisputeResolution: 0.15,
	}
}

func (w EligibilityWeights) Sum() float64 {
	return w.Methodology + w.Consensus + w.EvidenceQuality + w.DisputeResolution
}

// PromotionEligibility is the single current eligibility snapshot per
// claim under review, including a human-readable explanation of every
// satisfied and failing criterion.
type PromotionEligibility struct {
	ClaimID                uuid.UUID `json:"claim_id"`
	MethodologyScore       float64   `json:"methodology_score"`
	ConsensusScore         float64   `json:"consensus_score"`
	EvidenceQualityScore   float64   `json:"evidence_quality_score"`
	DisputeResolutionScore float64   `json:"dispute_resolution_score"`
	OverallScore           float64   `json:"overall_score"`
	Eligible               bool      `json:"eligible"`
	BlockingIssues         []string  `json:"blocking_issues"`
	EligibilityReasons     []string  `json:"eligibility_reasons"`
	VoteCount              int       `json:"vote_count"`
	Revision               int       `json:"revision"`
	CalculatedAt           time.Time `json:"calculated_at"`
}

// PromotionCriteria is the frozen snapshot captured at the moment of
// promotion.
type PromotionCriteria struct {
	MethodologyScore       float64 `json:"methodology_score"`
	ConsensusScore         float64 `json:"consensus_score"`
	EvidenceQualityScore   float64 `json:"evidence_quality_score"`
	DisputeResolutionScore float64 `json:"dispute_resolution_score"`
	OverallScore           float64 `json:"overall_score"`
	VoteCount              int     `json:"vote_count"`
}

// PromotionRecord is the append-only, immutable record of a promotion.
// Never updated or deleted.
type PromotionRecord struct {
	ID          uuid.UUID         `json:"id"`
	ClaimID     uuid.UUID         `json:"claim_id"`
	FromLevel   PromotionLevel    `json:"from_level"`
	ToLevel     PromotionLevel    `json:"to_level"`
	Criteria    PromotionCriteria `json:"criteria"`
	TriggeredBy string            `json:"triggered_by"`
	PromotedAt  time.Time         `json:"promoted_at"`
}

// MethodologyProgress is the completion state of a claim's prescribed
// investigative process, consumed from the process collaborator.
type MethodologyProgress struct {
	ClaimID        uuid.UUID `json:"claim_id"`
	RequiredSteps  int       `json:"required_steps"`
	CompletedSteps int       `json:"completed_steps"`
}

// Score returns the completed/required ratio, or 1.0 when the claim has
// no prescribed process.
func (p *MethodologyProgress) Score() float64 {
	if p == nil || p.RequiredSteps == 0 {
		return 1.0
	}
	return float64(p.CompletedSteps) / float64(p.RequiredSteps)
}
