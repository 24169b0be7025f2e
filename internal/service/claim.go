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
	ErrClaimStatementMissing = errors.New("statement is required")
	ErrClaimInvalidKind      = errors.New("invalid claim kind")
)

// ClaimService registers claims and serves their score state. Creating
// a claim immediately computes its initial score so the score row
// exists before any evidence arrives.
type ClaimService struct {
	claimStore domain.ClaimStore
	scoreStore domain.ScoreStore
	scorer     *ScorerService
	logger     *zap.Logger
}

func NewClaimService(cs domain.ClaimStore, ss domain.ScoreStore,
	scorer *ScorerService, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		claimStore: cs,
		scoreStore: ss,
		scorer:     scorer,
		logger:     logger,
	}
}

func (s *ClaimService) Create(ctx context.Context, c *domain.Claim) error {
	if c.Statement == "" {
		return ErrClaimStatementMissing
	}
	switch c.Kind {
	case domain.ClaimKindNode, domain.ClaimKindEdge:
	default:
		return ErrClaimInvalidKind
	}

	if err := s.claimStore.Create(ctx, c); err != nil {
		return err
	}

	if _, err := s.scorer.Refresh(ctx, c.ID, domain.ReasonSystem, nil); err != nil {
		s.logger.Warn("initial score computation failed",
			zap.String("claim_id", c.ID.String()),
			zap.Error(err))
	}

	return nil
}

func (s *ClaimService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	c, err := s.claimStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ClaimService) Score(ctx context.Context, claimID uuid.UUID) (*domain.VeracityScore, error) {
	sc, err := s.scoreStore.GetByClaim(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, cerr := s.claimStore.GetByID(ctx, claimID); cerr != nil {
				if errors.Is(cerr, store.ErrNotFound) {
					return nil, ErrClaimNotFound
				}
				return nil, cerr
			}
		}
		return nil, err
	}
	return sc, nil
}

func (s *ClaimService) ScoreHistory(ctx context.Context, claimID uuid.UUID, limit int) ([]domain.ScoreHistory, error) {
	return s.scoreStore.ListHistory(ctx, claimID, limit)
}

// Refresh forces a recomputation outside the normal trigger chain, for
// manual corrections and scheduled sweeps.
func (s *ClaimService) Refresh(ctx context.Context, claimID uuid.UUID, reason domain.ScoreReason) (*domain.VeracityScore, error) {
	switch reason {
	case domain.ReasonManual, domain.ReasonScheduled:
	default:
		reason = domain.ReasonManual
	}
	return s.scorer.Refresh(ctx, claimID, reason, nil)
}
