package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var (
	ErrDisputeNotFound      = errors.New("dispute not found")
	ErrDisputeReasonMissing = errors.New("reason is required")
	ErrDisputeNotOpen       = errors.New("dispute is not open")
)

// DisputeService handles the dispute lifecycle and the synchronous score
// and eligibility recomputation each status change triggers.
type DisputeService struct {
	disputeStore domain.DisputeStore
	claimStore   domain.ClaimStore
	scorer       *ScorerService
	promotion    *PromotionService
	logger       *zap.Logger
}

func NewDisputeService(ds domain.DisputeStore, cs domain.ClaimStore,
	scorer *ScorerService, promotion *PromotionService, logger *zap.Logger) *DisputeService {
	return &DisputeService{
		disputeStore: ds,
		claimStore:   cs,
		scorer:       scorer,
		promotion:    promotion,
		logger:       logger,
	}
}

// Open raises a dispute against a claim. Immutable claims no longer
// accept disputes.
func (s *DisputeService) Open(ctx context.Context, d *domain.Dispute) error {
	if d.Reason == "" {
		return ErrDisputeReasonMissing
	}

	claim, err := s.claimStore.GetByID(ctx, d.ClaimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClaimNotFound
		}
		return err
	}
	if claim.Immutable {
		return ErrClaimImmutable
	}

	d.Status = domain.DisputeOpen
	if err := s.disputeStore.Create(ctx, d); err != nil {
		return err
	}

	s.logger.Info("dispute opened",
		zap.String("claim_id", d.ClaimID.String()),
		zap.String("dispute_id", d.ID.String()))

	return s.recompute(ctx, d, domain.ReasonDisputeCreated, "dispute_opened")
}

// Resolve closes an open dispute as resolved.
func (s *DisputeService) Resolve(ctx context.Context, id uuid.UUID) error {
	return s.close(ctx, id, domain.DisputeResolved, "dispute_resolved")
}

// Withdraw closes an open dispute as withdrawn by its raiser.
func (s *DisputeService) Withdraw(ctx context.Context, id uuid.UUID) error {
	return s.close(ctx, id, domain.DisputeWithdrawn, "dispute_withdrawn")
}

func (s *DisputeService) close(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, trigger string) error {
	d, err := s.disputeStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDisputeNotFound
		}
		return err
	}
	if d.Status != domain.DisputeOpen {
		return ErrDisputeNotOpen
	}

	now := time.Now()
	if err := s.disputeStore.UpdateStatus(ctx, id, status, &now); err != nil {
		return err
	}
	d.Status = status
	d.ResolvedAt = &now

	return s.recompute(ctx, d, domain.ReasonDisputeResolved, trigger)
}

func (s *DisputeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	d, err := s.disputeStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DisputeService) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Dispute, error) {
	return s.disputeStore.ListByClaim(ctx, claimID)
}

func (s *DisputeService) recompute(ctx context.Context, d *domain.Dispute, reason domain.ScoreReason, trigger string) error {
	disputeID := d.ID
	if _, err := s.scorer.Refresh(ctx, d.ClaimID, reason, &disputeID); err != nil {
		return err
	}
	if _, err := s.promotion.Reevaluate(ctx, d.ClaimID, trigger); err != nil {
		return err
	}
	return nil
}
