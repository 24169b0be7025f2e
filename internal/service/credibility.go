package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"go.uber.org/zap"
)

// Credibility blend weights.
const (
	CredibilityVerifiedWeight  = 0.4
	CredibilityChallengeWeight = 0.3
	CredibilityAlignmentWeight = 0.3
)

type CredibilityService struct {
	evidenceStore domain.EvidenceStore
	sourceStore   domain.SourceStore
	logger        *zap.Logger
}

func NewCredibilityService(es domain.EvidenceStore, ss domain.SourceStore, logger *zap.Logger) *CredibilityService {
	return &CredibilityService{
		evidenceStore: es,
		sourceStore:   ss,
		logger:        logger,
	}
}

// CredibilityFromCounts derives a source's credibility from its raw
// evidence tallies. Working from raw counts rather than already-weighted
// values is what breaks the evidence<->credibility cycle: each pass is a
// one-directional recomputation, not a fixed-point iteration.
func CredibilityFromCounts(c domain.SourceEvidenceCounts) (score, verifiedRatio, challengeRatio float64) {
	if c.Total > 0 {
		verifiedRatio = float64(c.Verified) / float64(c.Total)
		challengeRatio = float64(c.Disputed) / float64(c.Total)
	}
	score = CredibilityVerifiedWeight*verifiedRatio +
		CredibilityChallengeWeight*(1-challengeRatio) +
		CredibilityAlignmentWeight*domain.NeutralConsensusAlignment
	return clamp01(score), verifiedRatio, challengeRatio
}

// Recompute refreshes a source's credibility record. Invoked after any
// evidence insert, update, or delete for that source.
func (s *CredibilityService) Recompute(ctx context.Context, sourceID uuid.UUID) (*domain.SourceCredibility, error) {
	counts, err := s.evidenceStore.CountsBySource(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	score, verifiedRatio, challengeRatio := CredibilityFromCounts(counts)

	sc := &domain.SourceCredibility{
		SourceID:           sourceID,
		Score:              score,
		VerifiedRatio:      verifiedRatio,
		ChallengeRatio:     challengeRatio,
		ConsensusAlignment: domain.NeutralConsensusAlignment,
		EvidenceCount:      counts.Total,
		CalculatedAt:       time.Now(),
	}

	if err := s.sourceStore.UpsertCredibility(ctx, sc); err != nil {
		return nil, err
	}

	s.logger.Debug("source credibility recomputed",
		zap.String("source_id", sourceID.String()),
		zap.Float64("score", sc.Score),
		zap.Int("evidence_count", counts.Total))

	return sc, nil
}
