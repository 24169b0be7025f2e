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
	ErrVoteValueRange   = errors.New("vote value must be within [0,1]")
	ErrVoteVoterMissing = errors.New("voter_id is required")
)

// VoteService records promotion-readiness votes. The vote weight is
// snapshotted from the voter's reputation at cast time; re-casting
// overwrites the prior vote and re-snapshots the weight.
type VoteService struct {
	voteStore  domain.VoteStore
	claimStore domain.ClaimStore
	reputation *ReputationService
	promotion  *PromotionService
	logger     *zap.Logger
}

func NewVoteService(vs domain.VoteStore, cs domain.ClaimStore,
	reputation *ReputationService, promotion *PromotionService, logger *zap.Logger) *VoteService {
	return &VoteService{
		voteStore:  vs,
		claimStore: cs,
		reputation: reputation,
		promotion:  promotion,
		logger:     logger,
	}
}

// Cast records or replaces a contributor's vote and re-evaluates
// promotion eligibility. Votes do not feed the veracity score, only the
// consensus component of eligibility.
func (s *VoteService) Cast(ctx context.Context, claimID, voterID uuid.UUID, value float64) (*domain.ConsensusVote, error) {
	if voterID == uuid.Nil {
		return nil, ErrVoteVoterMissing
	}
	if value < 0 || value > 1 {
		return nil, ErrVoteValueRange
	}

	claim, err := s.claimStore.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	if claim.Immutable {
		return nil, ErrClaimImmutable
	}

	weight, err := s.reputation.VoteWeightFor(ctx, voterID)
	if err != nil {
		return nil, err
	}

	vote := &domain.ConsensusVote{
		ClaimID: claimID,
		VoterID: voterID,
		Value:   value,
		Weight:  weight,
	}
	if err := s.voteStore.Upsert(ctx, vote); err != nil {
		return nil, err
	}

	s.logger.Debug("consensus vote cast",
		zap.String("claim_id", claimID.String()),
		zap.String("voter_id", voterID.String()),
		zap.Float64("value", value),
		zap.Float64("weight", weight))

	if _, err := s.promotion.Reevaluate(ctx, claimID, "vote_cast"); err != nil {
		return nil, err
	}

	return vote, nil
}

func (s *VoteService) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ConsensusVote, error) {
	return s.voteStore.ListByClaim(ctx, claimID)
}
