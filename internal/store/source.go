package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type SourceStore struct {
	db *pgxpool.Pool
}

func NewSourceStore(db *pgxpool.Pool) *SourceStore {
	return &SourceStore{db: db}
}

func (s *SourceStore) Create(ctx context.Context, src *domain.Source) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO sources (name, url) VALUES ($1, $2)
		 RETURNING id, created_at`,
		src.Name, src.URL,
	).Scan(&src.ID, &src.CreatedAt)
}

func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	src := &domain.Source{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, url, created_at FROM sources WHERE id = $1`,
		id,
	).Scan(&src.ID, &src.Name, &src.URL, &src.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return src, nil
}

func (s *SourceStore) GetCredibility(ctx context.Context, sourceID uuid.UUID) (*domain.SourceCredibility, error) {
	sc := &domain.SourceCredibility{}
	err := s.db.QueryRow(ctx,
		`SELECT source_id, score, verified_ratio, challenge_ratio, consensus_alignment, evidence_count, calculated_at
		 FROM source_credibility WHERE source_id = $1`,
		sourceID,
	).Scan(&sc.SourceID, &sc.Score, &sc.VerifiedRatio, &sc.ChallengeRatio,
		&sc.ConsensusAlignment, &sc.EvidenceCount, &sc.CalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sc, nil
}

func (s *SourceStore) UpsertCredibility(ctx context.Context, sc *domain.SourceCredibility) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO source_credibility (source_id, score, verified_ratio, challenge_ratio, consensus_alignment, evidence_count, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (source_id) DO UPDATE
		 SET score = EXCLUDED.score,
		     verified_ratio = EXCLUDED.verified_ratio,
		     challenge_ratio = EXCLUDED.challenge_ratio,
		     consensus_alignment = EXCLUDED.consensus_alignment,
		     evidence_count = EXCLUDED.evidence_count,
		     calculated_at = NOW()
		 RETURNING calculated_at`,
		sc.SourceID, sc.Score, sc.VerifiedRatio, sc.ChallengeRatio,
		sc.ConsensusAlignment, sc.EvidenceCount,
	).Scan(&sc.CalculatedAt)
}
