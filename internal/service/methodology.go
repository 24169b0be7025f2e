package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var (
	ErrStepNameMissing = errors.New("step name is required")
	ErrStepNotFound    = errors.New("methodology step not found")
)

// MethodologyService tracks the prescribed investigative process for a
// claim on behalf of the process collaborator. Step completion feeds the
// methodology component of promotion eligibility.
type MethodologyService struct {
	methodologyStore domain.MethodologyStore
	claimStore       domain.ClaimStore
	promotion        *PromotionService
	logger           *zap.Logger
}

func NewMethodologyService(ms domain.MethodologyStore, cs domain.ClaimStore,
	promotion *PromotionService, logger *zap.Logger) *MethodologyService {
	return &MethodologyService{
		methodologyStore: ms,
		claimStore:       cs,
		promotion:        promotion,
		logger:           logger,
	}
}

func (s *MethodologyService) mutableClaim(ctx context.Context, claimID uuid.UUID) error {
	claim, err := s.claimStore.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClaimNotFound
		}
		return err
	}
	if claim.Immutable {
		return ErrClaimImmutable
	}
	return nil
}

// DefineStep registers a required process step for a claim. Adding a
// step can lower the methodology score, so eligibility is re-evaluated.
func (s *MethodologyService) DefineStep(ctx context.Context, claimID uuid.UUID, name string) error {
	if name == "" {
		return ErrStepNameMissing
	}
	if err := s.mutableClaim(ctx, claimID); err != nil {
		return err
	}
	if err := s.methodologyStore.DefineStep(ctx, claimID, name); err != nil {
		return err
	}
	if _, err := s.promotion.Reevaluate(ctx, claimID, "step_defined"); err != nil {
		return err
	}
	return nil
}

// CompleteStep marks a required step done and re-evaluates eligibility.
func (s *MethodologyService) CompleteStep(ctx context.Context, claimID uuid.UUID, name string) error {
	if name == "" {
		return ErrStepNameMissing
	}
	if err := s.mutableClaim(ctx, claimID); err != nil {
		return err
	}
	if err := s.methodologyStore.MarkStepComplete(ctx, claimID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrStepNotFound
		}
		return err
	}

	s.logger.Debug("methodology step completed",
		zap.String("claim_id", claimID.String()),
		zap.String("step", name))

	if _, err := s.promotion.Reevaluate(ctx, claimID, "step_completed"); err != nil {
		return err
	}
	return nil
}

// Progress returns nil when the claim has no prescribed process.
func (s *MethodologyService) Progress(ctx context.Context, claimID uuid.UUID) (*domain.MethodologyProgress, error) {
	p, err := s.methodologyStore.GetProgress(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
