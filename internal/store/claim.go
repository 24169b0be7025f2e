package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type ClaimStore struct {
	db *pgxpool.Pool
}

func NewClaimStore(db *pgxpool.Pool) *ClaimStore {
	return &ClaimStore{db: db}
}

func (s *ClaimStore) Create(ctx context.Context, c *domain.Claim) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO claims (kind, statement, immutable)
		 VALUES ($1, $2, false)
		 RETURNING id, created_at, updated_at`,
		c.Kind, c.Statement,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *ClaimStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	c := &domain.Claim{}
	err := s.db.QueryRow(ctx,
		`SELECT id, kind, statement, immutable, promoted_at, created_at, updated_at
		 FROM claims WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Kind, &c.Statement, &c.Immutable, &c.PromotedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
