package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type VoteStore struct {
	db *pgxpool.Pool
}

func NewVoteStore(db *pgxpool.Pool) *VoteStore {
	return &VoteStore{db: db}
}

// Upsert writes one vote per (claim, voter); re-casting overwrites the
// prior value and weight, no history kept.
func (s *VoteStore) Upsert(ctx context.Context, v *domain.ConsensusVote) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO consensus_votes (claim_id, voter_id, value, weight, cast_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (claim_id, voter_id) DO UPDATE
		 SET value = EXCLUDED.value,
		     weight = EXCLUDED.weight,
		     cast_at = NOW()
		 RETURNING cast_at`,
		v.ClaimID, v.VoterID, v.Value, v.Weight,
	).Scan(&v.CastAt)
}

func (s *VoteStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.ConsensusVote, error) {
	rows, err := s.db.Query(ctx,
		`SELECT claim_id, voter_id, value, weight, cast_at
		 FROM consensus_votes WHERE claim_id = $1
		 ORDER BY cast_at ASC`,
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.ConsensusVote
	for rows.Next() {
		var v domain.ConsensusVote
		if err := rows.Scan(&v.ClaimID, &v.VoterID, &v.Value, &v.Weight, &v.CastAt); err != nil {
			return nil, fmt.Errorf("scan vote row: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
