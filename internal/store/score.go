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

type ScoreStore struct {
	db *pgxpool.Pool
}

func NewScoreStore(db *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) GetByClaim(ctx context.Context, claimID uuid.UUID) (*domain.VeracityScore, error) {
	vs := &domain.VeracityScore{}
	err := s.db.QueryRow(ctx,
		`SELECT claim_id, score, interval_low, interval_high, evidence_weight_sum,
		        supporting_weight, refuting_weight, evidence_count, consensus_score,
		        open_dispute_count, dispute_impact, decay_factor, method, revision,
		        calculated_at, expires_at
		 FROM veracity_scores WHERE claim_id = $1`,
		claimID,
	).Scan(&vs.ClaimID, &vs.Score, &vs.IntervalLow, &vs.IntervalHigh, &vs.EvidenceWeightSum,
		&vs.SupportingWeight, &vs.RefutingWeight, &vs.EvidenceCount, &vs.ConsensusScore,
		&vs.OpenDisputeCount, &vs.DisputeImpact, &vs.DecayFactor, &vs.Method, &vs.Revision,
		&vs.CalculatedAt, &vs.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return vs, nil
}

// Upsert writes the single score row for a claim, guarded by the revision
// the caller read. The revision predicate on the conflict update is what
// makes two concurrent read-compute-write sequences safe: the loser's
// update matches zero rows and gets ErrVersionConflict.
func (s *ScoreStore) Upsert(ctx context.Context, vs *domain.VeracityScore, expectedRevision int) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO veracity_scores (claim_id, score, interval_low, interval_high,
		        evidence_weight_sum, supporting_weight, refuting_weight, evidence_count,
		        consensus_score, open_dispute_count, dispute_impact, decay_factor,
		        method, revision, calculated_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1, NOW(), $14)
		 ON CONFLICT (claim_id) DO UPDATE
		 SET score = EXCLUDED.score,
		     interval_low = EXCLUDED.interval_low,
		     interval_high = EXCLUDED.interval_high,
		     evidence_weight_sum = EXCLUDED.evidence_weight_sum,
		     supporting_weight = EXCLUDED.supporting_weight,
		     refuting_weight = EXCLUDED.refuting_weight,
		     evidence_count = EXCLUDED.evidence_count,
		     consensus_score = EXCLUDED.consensus_score,
		     open_dispute_count = EXCLUDED.open_dispute_count,
		     dispute_impact = EXCLUDED.dispute_impact,
		     decay_factor = EXCLUDED.decay_factor,
		     method = EXCLUDED.method,
		     revision = veracity_scores.revision + 1,
		     calculated_at = NOW(),
		     expires_at = EXCLUDED.expires_at
		 WHERE veracity_scores.revision = $15
		 RETURNING revision, calculated_at`,
		vs.ClaimID, vs.Score, vs.IntervalLow, vs.IntervalHigh,
		vs.EvidenceWeightSum, vs.SupportingWeight, vs.RefutingWeight, vs.EvidenceCount,
		vs.ConsensusScore, vs.OpenDisputeCount, vs.DisputeImpact, vs.DecayFactor,
		vs.Method, vs.ExpiresAt, expectedRevision,
	).Scan(&vs.Revision, &vs.CalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionConflict
		}
		return err
	}
	return nil
}

func (s *ScoreStore) AppendHistory(ctx context.Context, h *domain.ScoreHistory) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO veracity_score_history (claim_id, old_score, new_score, delta, reason, triggered_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		h.ClaimID, h.OldScore, h.NewScore, h.Delta, h.Reason, h.TriggeredBy,
	).Scan(&h.ID, &h.CreatedAt)
}

func (s *ScoreStore) ListHistory(ctx context.Context, claimID uuid.UUID, limit int) ([]domain.ScoreHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, claim_id, old_score, new_score, delta, reason, triggered_by, created_at
		 FROM veracity_score_history
		 WHERE claim_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		claimID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list score history: %w", err)
	}
	defer rows.Close()

	var items []domain.ScoreHistory
	for rows.Next() {
		var h domain.ScoreHistory
		if err := rows.Scan(&h.ID, &h.ClaimID, &h.OldScore, &h.NewScore, &h.Delta, &h.Reason, &h.TriggeredBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score history row: %w", err)
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
