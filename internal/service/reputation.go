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
	ErrReputationUserIDMissing = errors.New("user_id is required")
	ErrReputationOutOfRange    = errors.New("reputation components must be within [0,1]")
	ErrReputationNotFound      = errors.New("reputation not found")
)

// ReputationService maintains per-contributor reputation and the vote
// weight derived from it. Component scores arrive from the identity
// collaborator; this service owns the blend, the weight, and the tier.
type ReputationService struct {
	reputationStore domain.ReputationStore
	logger          *zap.Logger
}

func NewReputationService(rs domain.ReputationStore, logger *zap.Logger) *ReputationService {
	return &ReputationService{reputationStore: rs, logger: logger}
}

// Update recomputes the overall reputation, vote weight, and tier from
// the given component scores and persists the record.
func (s *ReputationService) Update(ctx context.Context, r *domain.ContributorReputation) error {
	if r.UserID == uuid.Nil {
		return ErrReputationUserIDMissing
	}
	for _, v := range []float64{r.EvidenceQuality, r.ConsensusAccuracy, r.ProcessCompletion, r.DisputeResolution} {
		if v < 0 || v > 1 {
			return ErrReputationOutOfRange
		}
	}

	r.Overall = domain.OverallReputation(r.EvidenceQuality, r.ConsensusAccuracy, r.ProcessCompletion, r.DisputeResolution)
	r.VoteWeight = domain.VoteWeightFor(r.Overall)
	r.Tier = domain.ComputeTier(r.Overall)

	if err := s.reputationStore.Upsert(ctx, r); err != nil {
		return err
	}

	s.logger.Debug("reputation updated",
		zap.String("user_id", r.UserID.String()),
		zap.Float64("overall", r.Overall),
		zap.Float64("vote_weight", r.VoteWeight),
		zap.String("tier", string(r.Tier)))

	return nil
}

func (s *ReputationService) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.ContributorReputation, error) {
	r, err := s.reputationStore.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReputationNotFound
		}
		return nil, err
	}
	return r, nil
}

// VoteWeightFor returns the contributor's current voting multiplier.
// New contributors with no reputation record vote at the neutral default.
func (s *ReputationService) VoteWeightFor(ctx context.Context, userID uuid.UUID) (float64, error) {
	r, err := s.reputationStore.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.DefaultVoteWeight, nil
		}
		return 0, err
	}
	return r.VoteWeight, nil
}
