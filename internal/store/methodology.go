package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type MethodologyStore struct {
	db *pgxpool.Pool
}

func NewMethodologyStore(db *pgxpool.Pool) *MethodologyStore {
	return &MethodologyStore{db: db}
}

// GetProgress returns ErrNotFound when the claim has no prescribed
// process at all.
func (s *MethodologyStore) GetProgress(ctx context.Context, claimID uuid.UUID) (*domain.MethodologyProgress, error) {
	p := &domain.MethodologyProgress{ClaimID: claimID}
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		 FROM methodology_steps WHERE claim_id = $1`,
		claimID,
	).Scan(&p.RequiredSteps, &p.CompletedSteps)
	if err != nil {
		return nil, err
	}
	if p.RequiredSteps == 0 {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *MethodologyStore) DefineStep(ctx context.Context, claimID uuid.UUID, name string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO methodology_steps (claim_id, name, completed)
		 VALUES ($1, $2, false)
		 ON CONFLICT (claim_id, name) DO NOTHING`,
		claimID, name,
	)
	return err
}

func (s *MethodologyStore) MarkStepComplete(ctx context.Context, claimID uuid.UUID, name string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE methodology_steps
		 SET completed = true, completed_at = NOW()
		 WHERE claim_id = $1 AND name = $2`,
		claimID, name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
