package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

// PromotionService owns the one-way provisional->promoted transition.
// It fires exactly once per claim, the instant eligibility flips true,
// and delegates the atomic three-way write (immutable flag, frozen
// score, history record) to the promotion store.
type PromotionService struct {
	claimStore     domain.ClaimStore
	promotionStore domain.PromotionStore
	eligibility    *EligibilityService
	events         EventPublisher
	logger         *zap.Logger
}

func NewPromotionService(cs domain.ClaimStore, ps domain.PromotionStore,
	es *EligibilityService, events EventPublisher, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		claimStore:     cs,
		promotionStore: ps,
		eligibility:    es,
		events:         events,
		logger:         logger,
	}
}

// Reevaluate recomputes the claim's eligibility and promotes it if the
// criteria are now met. This is the single entry point invoked after
// every vote, dispute-status change, process-step completion, or
// evidence change.
func (s *PromotionService) Reevaluate(ctx context.Context, claimID uuid.UUID, trigger string) (*domain.PromotionEligibility, error) {
	claim, err := s.claimStore.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	if claim.Immutable {
		// Already promoted; eligibility no longer applies.
		return s.promotionStore.GetEligibility(ctx, claimID)
	}

	elig, err := s.eligibility.Evaluate(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if elig.Eligible {
		if err := s.promote(ctx, elig, trigger); err != nil {
			return nil, err
		}
	}

	return elig, nil
}

func (s *PromotionService) promote(ctx context.Context, elig *domain.PromotionEligibility, trigger string) error {
	rec := &domain.PromotionRecord{
		ClaimID:   elig.ClaimID,
		FromLevel: domain.LevelProvisional,
		ToLevel:   domain.LevelPromoted,
		Criteria: domain.PromotionCriteria{
			MethodologyScore:       elig.MethodologyScore,
			ConsensusScore:         elig.ConsensusScore,
			EvidenceQualityScore:   elig.EvidenceQualityScore,
			DisputeResolutionScore: elig.DisputeResolutionScore,
			OverallScore:           elig.OverallScore,
			VoteCount:              elig.VoteCount,
		},
		TriggeredBy: trigger,
	}

	if err := s.promotionStore.Execute(ctx, elig.ClaimID, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyPromoted) {
			// A concurrent trigger won the race; the transition still
			// happened exactly once.
			s.logger.Debug("claim promoted by concurrent trigger",
				zap.String("claim_id", elig.ClaimID.String()))
			return nil
		}
		return err
	}

	s.logger.Info("claim promoted",
		zap.String("claim_id", elig.ClaimID.String()),
		zap.Float64("overall_score", elig.OverallScore),
		zap.Int("vote_count", elig.VoteCount),
		zap.String("trigger", trigger))

	if s.events != nil {
		if err := s.events.ClaimPromoted(ctx, rec); err != nil {
			s.logger.Warn("failed to publish promotion event", zap.Error(err))
		}
	}

	return nil
}

func (s *PromotionService) History(ctx context.Context, claimID uuid.UUID) ([]domain.PromotionRecord, error) {
	return s.promotionStore.ListRecords(ctx, claimID)
}

func (s *PromotionService) Eligibility(ctx context.Context, claimID uuid.UUID) (*domain.PromotionEligibility, error) {
	return s.promotionStore.GetEligibility(ctx, claimID)
}
