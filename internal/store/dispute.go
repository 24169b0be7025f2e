package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type DisputeStore struct {
	db *pgxpool.Pool
}

func NewDisputeStore(db *pgxpool.Pool) *DisputeStore {
	return &DisputeStore{db: db}
}

func (s *DisputeStore) Create(ctx context.Context, d *domain.Dispute) error {
	if d.Status == "" {
		d.Status = domain.DisputeOpen
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO disputes (claim_id, raised_by, reason, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		d.ClaimID, d.RaisedBy, d.Reason, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *DisputeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	err := s.db.QueryRow(ctx,
		`SELECT id, claim_id, raised_by, reason, status, created_at, resolved_at
		 FROM disputes WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.ClaimID, &d.RaisedBy, &d.Reason, &d.Status, &d.CreatedAt, &d.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DisputeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DisputeStatus, resolvedAt *time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE disputes SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, status, resolvedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DisputeStore) CountOpenByClaim(ctx context.Context, claimID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM disputes WHERE claim_id = $1 AND status = 'open'`,
		claimID,
	).Scan(&count)
	return count, err
}

func (s *DisputeStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Dispute, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, claim_id, raised_by, reason, status, created_at, resolved_at
		 FROM disputes WHERE claim_id = $1
		 ORDER BY created_at ASC`,
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	var items []domain.Dispute
	for rows.Next() {
		var d domain.Dispute
		if err := rows.Scan(&d.ID, &d.ClaimID, &d.RaisedBy, &d.Reason, &d.Status, &d.CreatedAt, &d.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan dispute row: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
