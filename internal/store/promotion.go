package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knograph/veracity/internal/domain"
)

type PromotionStore struct {
	db *pgxpool.Pool
}

func NewPromotionStore(db *pgxpool.Pool) *PromotionStore {
	return &PromotionStore{db: db}
}

func (s *PromotionStore) GetEligibility(ctx context.Context, claimID uuid.UUID) (*domain.PromotionEligibility, error) {
	e := &domain.PromotionEligibility{}
	err := s.db.QueryRow(ctx,
		`SELECT claim_id, methodology_score, consensus_score, evidence_quality_score,
		        dispute_resolution_score, overall_score, eligible, blocking_issues,
		        eligibility_reasons, vote_count, revision, calculated_at
		 FROM promotion_eligibility WHERE claim_id = $1`,
		claimID,
	).Scan(&e.ClaimID, &e.MethodologyScore, &e.ConsensusScore, &e.EvidenceQualityScore,
		&e.DisputeResolutionScore, &e.OverallScore, &e.Eligible, &e.BlockingIssues,
		&e.EligibilityReasons, &e.VoteCount, &e.Revision, &e.CalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *PromotionStore) UpsertEligibility(ctx context.Context, e *domain.PromotionEligibility, expectedRevision int) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO promotion_eligibility (claim_id, methodology_score, consensus_score,
		        evidence_quality_score, dispute_resolution_score, overall_score, eligible,
		        blocking_issues, eligibility_reasons, vote_count, revision, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW())
		 ON CONFLICT (claim_id) DO UPDATE
		 SET methodology_score = EXCLUDED.methodology_score,
		     consensus_score = EXCLUDED.consensus_score,
		     evidence_quality_score = EXCLUDED.evidence_quality_score,
		     dispute_resolution_score = EXCLUDED.dispute_resolution_score,
		     overall_score = EXCLUDED.overall_score,
		     eligible = EXCLUDED.eligible,
		     blocking_issues = EXCLUDED.blocking_issues,
		     eligibility_reasons = EXCLUDED.eligibility_reasons,
		     vote_count = EXCLUDED.vote_count,
		     revision = promotion_eligibility.revision + 1,
		     calculated_at = NOW()
		 WHERE promotion_eligibility.revision = $11
		 RETURNING revision, calculated_at`,
		e.ClaimID, e.MethodologyScore, e.ConsensusScore,
		e.EvidenceQualityScore, e.DisputeResolutionScore, e.OverallScore, e.Eligible,
		e.BlockingIssues, e.EligibilityReasons, e.VoteCount, expectedRevision,
	).Scan(&e.Revision, &e.CalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionConflict
		}
		return err
	}
	return nil
}

// Execute performs the one-way promotion in a single transaction: the
// claim flips immutable, its score row is frozen at 1.0, and the
// promotion record is appended. Any failure rolls back the whole
// transition and the claim stays provisional.
func (s *PromotionStore) Execute(ctx context.Context, claimID uuid.UUID, rec *domain.PromotionRecord) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin promotion tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE claims SET immutable = true, promoted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND immutable = false`,
		claimID,
	)
	if err != nil {
		return fmt.Errorf("mark claim immutable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM claims WHERE id = $1)`, claimID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyPromoted
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO veracity_scores (claim_id, score, evidence_weight_sum, supporting_weight,
		        refuting_weight, evidence_count, consensus_score, open_dispute_count,
		        dispute_impact, decay_factor, method, revision, calculated_at)
		 VALUES ($1, 1.0, 0, 0, 0, 0, 1.0, 0, 0, 1.0, 'promoted', 1, NOW())
		 ON CONFLICT (claim_id) DO UPDATE
		 SET score = 1.0,
		     method = 'promoted',
		     revision = veracity_scores.revision + 1,
		     calculated_at = NOW()`,
		claimID,
	)
	if err != nil {
		return fmt.Errorf("freeze veracity score: %w", err)
	}

	criteria, err := json.Marshal(rec.Criteria)
	if err != nil {
		return fmt.Errorf("marshal promotion criteria: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO promotion_history (claim_id, from_level, to_level, criteria, triggered_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, promoted_at`,
		claimID, rec.FromLevel, rec.ToLevel, criteria, rec.TriggeredBy,
	).Scan(&rec.ID, &rec.PromotedAt)
	if err != nil {
		return fmt.Errorf("append promotion record: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PromotionStore) ListRecords(ctx context.Context, claimID uuid.UUID) ([]domain.PromotionRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, claim_id, from_level, to_level, criteria, triggered_by, promoted_at
		 FROM promotion_history WHERE claim_id = $1
		 ORDER BY promoted_at ASC`,
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("list promotion records: %w", err)
	}
	defer rows.Close()

	var records []domain.PromotionRecord
	for rows.Next() {
		var r domain.PromotionRecord
		var criteria []byte
		if err := rows.Scan(&r.ID, &r.ClaimID, &r.FromLevel, &r.ToLevel, &criteria, &r.TriggeredBy, &r.PromotedAt); err != nil {
			return nil, fmt.Errorf("scan promotion record: %w", err)
		}
		if err := json.Unmarshal(criteria, &r.Criteria); err != nil {
			return nil, fmt.Errorf("unmarshal promotion criteria: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
