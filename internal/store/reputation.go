package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type ReputationStore struct {
	db *pgxpool.Pool
}

func NewReputationStore(db *pgxpool.Pool) *ReputationStore {
	return &ReputationStore{db: db}
}

func (s *ReputationStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.ContributorReputation, error) {
	r := &domain.ContributorReputation{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, evidence_quality, consensus_accuracy, process_completion,
		        dispute_resolution, overall, vote_weight, tier, updated_at
		 FROM contributor_reputation WHERE user_id = $1`,
		userID,
	).Scan(&r.UserID, &r.EvidenceQuality, &r.ConsensusAccuracy, &r.ProcessCompletion,
		&r.DisputeResolution, &r.Overall, &r.VoteWeight, &r.Tier, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *ReputationStore) Upsert(ctx context.Context, r *domain.ContributorReputation) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO contributor_reputation (user_id, evidence_quality, consensus_accuracy,
		        process_completion, dispute_resolution, overall, vote_weight, tier, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET evidence_quality = EXCLUDED.evidence_quality,
		     consensus_accuracy = EXCLUDED.consensus_accuracy,
		     process_completion = EXCLUDED.process_completion,
		     dispute_resolution = EXCLUDED.dispute_resolution,
		     overall = EXCLUDED.overall,
		     vote_weight = EXCLUDED.vote_weight,
		     tier = EXCLUDED.tier,
		     updated_at = NOW()
		 RETURNING updated_at`,
		r.UserID, r.EvidenceQuality, r.ConsensusAccuracy,
		r.ProcessCompletion, r.DisputeResolution, r.Overall, r.VoteWeight, r.Tier,
	).Scan(&r.UpdatedAt)
}
