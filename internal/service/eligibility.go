package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var ErrWeightsInvalid = errors.New("eligibility weights must sum to 1.0")

const (
	// DefaultPromotionThreshold is the minimum weighted overall score.
	DefaultPromotionThreshold = 0.80
	// DefaultMinVotes is the participation floor: below it the consensus
	// component scores 0.0 — insufficient participation means "not
	// ready", not "neutral".
	DefaultMinVotes = 5

	weightSumTolerance = 1e-9
)

// EligibilityService evaluates the multi-factor promotion criteria for a
// claim. The weighted overall score is advisory; the two hard gates
// (complete methodology, zero open disputes) are non-negotiable no
// matter how high it is.
type EligibilityService struct {
	voteStore        domain.VoteStore
	evidenceStore    domain.EvidenceStore
	sourceStore      domain.SourceStore
	disputeStore     domain.DisputeStore
	methodologyStore domain.MethodologyStore
	promotionStore   domain.PromotionStore
	logger           *zap.Logger

	Weights    domain.EligibilityWeights
	Threshold  float64
	MinVotes   int
	MaxRetries int
}

func NewEligibilityService(vs domain.VoteStore, es domain.EvidenceStore, ss domain.SourceStore,
	ds domain.DisputeStore, ms domain.MethodologyStore, ps domain.PromotionStore,
	weights domain.EligibilityWeights, logger *zap.Logger) (*EligibilityService, error) {
	if math.Abs(weights.Sum()-1.0) > weightSumTolerance {
		return nil, ErrWeightsInvalid
	}
	return &EligibilityService{
		voteStore:        vs,
		evidenceStore:    es,
		sourceStore:      ss,
		disputeStore:     ds,
		methodologyStore: ms,
		promotionStore:   ps,
		logger:           logger,
		Weights:          weights,
		Threshold:        DefaultPromotionThreshold,
		MinVotes:         DefaultMinVotes,
		MaxRetries:       DefaultMaxRetries,
	}, nil
}

// WeightedConsensus computes the weighted average of the votes, or 0.0
// under the participation floor.
func WeightedConsensus(votes []domain.ConsensusVote, minVotes int) float64 {
	if len(votes) < minVotes {
		return 0.0
	}
	var valueSum, weightSum float64
	for _, v := range votes {
		valueSum += v.Value * v.Weight
		weightSum += v.Weight
	}
	if weightSum == 0 {
		return 0.0
	}
	return valueSum / weightSum
}

// Evaluate recomputes the claim's eligibility snapshot and persists it
// under optimistic versioning. Recomputed whenever a vote, a
// process-completion record, or a dispute-status change occurs.
func (s *EligibilityService) Evaluate(ctx context.Context, claimID uuid.UUID) (*domain.PromotionEligibility, error) {
	for attempt := 0; attempt < s.MaxRetries; attempt++ {
		elig, expectedRevision, err := s.compute(ctx, claimID)
		if err != nil {
			return nil, err
		}

		if err := s.promotionStore.UpsertEligibility(ctx, elig, expectedRevision); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				s.logger.Debug("eligibility revision conflict, recomputing",
					zap.String("claim_id", claimID.String()),
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}
		return elig, nil
	}
	return nil, ErrConcurrentUpdate
}

func (s *EligibilityService) compute(ctx context.Context, claimID uuid.UUID) (*domain.PromotionEligibility, int, error) {
	prior, err := s.promotionStore.GetEligibility(ctx, claimID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, 0, err
	}
	expectedRevision := 0
	if prior != nil {
		expectedRevision = prior.Revision
	}

	methodologyScore, err := s.methodologyScore(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}

	votes, err := s.voteStore.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}
	consensusScore := WeightedConsensus(votes, s.MinVotes)

	evidenceQuality, err := s.evidenceQualityScore(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}

	openDisputes, err := s.disputeStore.CountOpenByClaim(ctx, claimID)
	if err != nil {
		return nil, 0, err
	}
	// Binary: no partial credit for "mostly resolved".
	disputeScore := 0.0
	if openDisputes == 0 {
		disputeScore = 1.0
	}

	overall := s.Weights.Methodology*methodologyScore +
		s.Weights.Consensus*consensusScore +
		s.Weights.EvidenceQuality*evidenceQuality +
		s.Weights.DisputeResolution*disputeScore

	elig := &domain.PromotionEligibility{
		ClaimID:                claimID,
		MethodologyScore:       methodologyScore,
		ConsensusScore:         consensusScore,
		EvidenceQualityScore:   evidenceQuality,
		DisputeResolutionScore: disputeScore,
		OverallScore:           overall,
		VoteCount:              len(votes),
		BlockingIssues:         []string{},
		EligibilityReasons:     []string{},
	}

	if methodologyScore >= 1.0 {
		elig.EligibilityReasons = append(elig.EligibilityReasons, "all required methodology steps completed")
	} else {
		elig.BlockingIssues = append(elig.BlockingIssues,
			fmt.Sprintf("methodology incomplete (%.0f%% of required steps done)", methodologyScore*100))
	}

	if disputeScore == 1.0 {
		elig.EligibilityReasons = append(elig.EligibilityReasons, "no open disputes")
	} else {
		elig.BlockingIssues = append(elig.BlockingIssues,
			fmt.Sprintf("open disputes exist (%d unresolved)", openDisputes))
	}

	if len(votes) < s.MinVotes {
		elig.BlockingIssues = append(elig.BlockingIssues,
			fmt.Sprintf("insufficient participation (%d of %d required votes)", len(votes), s.MinVotes))
	} else {
		elig.EligibilityReasons = append(elig.EligibilityReasons,
			fmt.Sprintf("community consensus at %.2f from %d votes", consensusScore, len(votes)))
	}

	if overall >= s.Threshold {
		elig.EligibilityReasons = append(elig.EligibilityReasons,
			fmt.Sprintf("overall score %.2f meets threshold %.2f", overall, s.Threshold))
	} else {
		elig.BlockingIssues = append(elig.BlockingIssues,
			fmt.Sprintf("overall score %.2f below threshold %.2f", overall, s.Threshold))
	}

	elig.Eligible = overall >= s.Threshold && methodologyScore >= 1.0 && disputeScore == 1.0

	return elig, expectedRevision, nil
}

// methodologyScore is the completed/required ratio of the prescribed
// process; a claim with no prescribed process counts as complete.
func (s *EligibilityService) methodologyScore(ctx context.Context, claimID uuid.UUID) (float64, error) {
	progress, err := s.methodologyStore.GetProgress(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 1.0, nil
		}
		return 0, err
	}
	return progress.Score(), nil
}

// evidenceQualityScore averages the credibility of the sources behind
// the claim's evidence, neutral 0.5 when there is none.
func (s *EligibilityService) evidenceQualityScore(ctx context.Context, claimID uuid.UUID) (float64, error) {
	evidence, err := s.evidenceStore.ListByClaim(ctx, claimID)
	if err != nil {
		return 0, err
	}
	if len(evidence) == 0 {
		return domain.DefaultSourceCredibility, nil
	}

	credibility := map[uuid.UUID]float64{}
	var sum float64
	for i := range evidence {
		e := &evidence[i]
		cred, ok := credibility[e.SourceID]
		if !ok {
			sc, err := s.sourceStore.GetCredibility(ctx, e.SourceID)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					return 0, err
				}
				cred = domain.DefaultSourceCredibility
			} else {
				cred = sc.Score
			}
			credibility[e.SourceID] = cred
		}
		sum += cred
	}
	return sum / float64(len(evidence)), nil
}
