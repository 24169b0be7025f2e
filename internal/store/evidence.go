package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type EvidenceStore struct {
	db *pgxpool.Pool
}

func NewEvidenceStore(db *pgxpool.Pool) *EvidenceStore {
	return &EvidenceStore{db: db}
}

const evidenceColumns = `id, target_node_id, target_edge_id, source_id, submitted_by, type, description,
	base_weight, confidence, temporal_relevance, decay_rate, relevant_date, verified, peer_review,
	created_at, updated_at`

func scanEvidence(row pgx.Row, e *domain.Evidence) error {
	return row.Scan(&e.ID, &e.TargetNodeID, &e.TargetEdgeID, &e.SourceID, &e.SubmittedBy,
		&e.Type, &e.Description, &e.BaseWeight, &e.Confidence, &e.TemporalRelevance,
		&e.DecayRate, &e.RelevantDate, &e.Verified, &e.PeerReview, &e.CreatedAt, &e.UpdatedAt)
}

func (s *EvidenceStore) Create(ctx context.Context, e *domain.Evidence) error {
	if e.PeerReview == "" {
		e.PeerReview = domain.PeerReviewPending
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO evidence (target_node_id, target_edge_id, source_id, submitted_by, type, description,
		        base_weight, confidence, temporal_relevance, decay_rate, relevant_date, verified, peer_review)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		e.TargetNodeID, e.TargetEdgeID, e.SourceID, e.SubmittedBy, e.Type, e.Description,
		e.BaseWeight, e.Confidence, e.TemporalRelevance, e.DecayRate, e.RelevantDate, e.Verified, e.PeerReview,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (s *EvidenceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evidence, error) {
	e := &domain.Evidence{}
	err := scanEvidence(s.db.QueryRow(ctx,
		`SELECT `+evidenceColumns+` FROM evidence WHERE id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EvidenceStore) Update(ctx context.Context, e *domain.Evidence) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE evidence
		 SET type = $2, description = $3, base_weight = $4, confidence = $5,
		     temporal_relevance = $6, decay_rate = $7, relevant_date = $8,
		     verified = $9, peer_review = $10, updated_at = NOW()
		 WHERE id = $1`,
		e.ID, e.Type, e.Description, e.BaseWeight, e.Confidence,
		e.TemporalRelevance, e.DecayRate, e.RelevantDate, e.Verified, e.PeerReview,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EvidenceStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM evidence WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EvidenceStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Evidence, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+evidenceColumns+`
		 FROM evidence
		 WHERE target_node_id = $1 OR target_edge_id = $1
		 ORDER BY created_at ASC`,
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	var items []domain.Evidence
	for rows.Next() {
		var e domain.Evidence
		if err := scanEvidence(rows, &e); err != nil {
			return nil, fmt.Errorf("scan evidence row: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (s *EvidenceStore) CountsBySource(ctx context.Context, sourceID uuid.UUID) (domain.SourceEvidenceCounts, error) {
	var c domain.SourceEvidenceCounts
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE verified),
		        COUNT(*) FILTER (WHERE peer_review = 'disputed' OR peer_review = 'rejected')
		 FROM evidence WHERE source_id = $1`,
		sourceID,
	).Scan(&c.Total, &c.Verified, &c.Disputed)
	return c, err
}
