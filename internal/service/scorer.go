package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var (
	ErrClaimNotFound = errors.New("claim not found")
	// ErrConcurrentUpdate is surfaced after the bounded retry budget for
	// a claim's score row is exhausted; the caller may retry the whole
	// operation.
	ErrConcurrentUpdate = errors.New("concurrent score update, retries exhausted")
)

const (
	// ScoreMethod tags every score row with the calculation method.
	ScoreMethod = "weighted_consensus_v1"

	// DefaultHistoryThreshold is the minimum |delta| that gets a history
	// row. Sub-threshold fluctuations are absorbed silently so
	// floating-point jitter does not pollute the audit log.
	DefaultHistoryThreshold = 0.01

	// DefaultMaxRetries bounds optimistic-concurrency retries on the
	// score row.
	DefaultMaxRetries = 3
)

// EventPublisher emits engine events for external reporting and
// notification collaborators.
type EventPublisher interface {
	ScoreChanged(ctx context.Context, h *domain.ScoreHistory) error
	ClaimPromoted(ctx context.Context, rec *domain.PromotionRecord) error
}

// ScorerService recomputes a claim's veracity score from the full
// current evidence and dispute set. Because the computation is a pure
// function of current state rather than an incremental delta, it is
// idempotent and order-independent: concurrent writers converge to the
// same score regardless of interleaving.
type ScorerService struct {
	claimStore    domain.ClaimStore
	evidenceStore domain.EvidenceStore
	disputeStore  domain.DisputeStore
	sourceStore   domain.SourceStore
	scoreStore    domain.ScoreStore
	events        EventPublisher
	logger        *zap.Logger

	HistoryThreshold float64
	MaxRetries       int
}

func NewScorerService(cs domain.ClaimStore, es domain.EvidenceStore, ds domain.DisputeStore,
	ss domain.SourceStore, scs domain.ScoreStore, events EventPublisher, logger *zap.Logger) *ScorerService {
	return &ScorerService{
		claimStore:       cs,
		evidenceStore:    es,
		disputeStore:     ds,
		sourceStore:      ss,
		scoreStore:       scs,
		events:           events,
		logger:           logger,
		HistoryThreshold: DefaultHistoryThreshold,
		MaxRetries:       DefaultMaxRetries,
	}
}

// Refresh recomputes and persists the claim's score, appending a history
// row when the score moved by more than the threshold. Immutable claims
// short-circuit: their score is fixed at 1.0 forever and nothing is
// written.
func (s *ScorerService) Refresh(ctx context.Context, claimID uuid.UUID, reason domain.ScoreReason, triggeredBy *uuid.UUID) (*domain.VeracityScore, error) {
	claim, err := s.claimStore.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	if claim.Immutable {
		s.logger.Debug("skipping score refresh for immutable claim",
			zap.String("claim_id", claimID.String()))
		return s.scoreStore.GetByClaim(ctx, claimID)
	}

	for attempt := 0; attempt < s.MaxRetries; attempt++ {
		vs, prior, err := s.compute(ctx, claimID)
		if err != nil {
			return nil, err
		}

		expectedRevision := 0
		oldScore := 0.0
		if prior != nil {
			expectedRevision = prior.Revision
			oldScore = prior.Score
		}

		if err := s.scoreStore.Upsert(ctx, vs, expectedRevision); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				s.logger.Debug("score revision conflict, recomputing",
					zap.String("claim_id", claimID.String()),
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}

		delta := vs.Score - oldScore
		if math.Abs(delta) > s.HistoryThreshold {
			h := &domain.ScoreHistory{
				ClaimID:     claimID,
				OldScore:    oldScore,
				NewScore:    vs.Score,
				Delta:       delta,
				Reason:      reason,
				TriggeredBy: triggeredBy,
			}
			if err := s.scoreStore.AppendHistory(ctx, h); err != nil {
				return nil, err
			}
			if s.events != nil {
				if err := s.events.ScoreChanged(ctx, h); err != nil {
					s.logger.Warn("failed to publish score change", zap.Error(err))
				}
			}
			s.logger.Info("veracity score changed",
				zap.String("claim_id", claimID.String()),
				zap.Float64("old_score", oldScore),
				zap.Float64("new_score", vs.Score),
				zap.String("reason", string(reason)))
		}

		return vs, nil
	}

	return nil, ErrConcurrentUpdate
}

// compute builds the full score record from current state. It reads the
// prior row only to learn the revision and old score for the optimistic
// write; every aggregate is recomputed from scratch.
func (s *ScorerService) compute(ctx context.Context, claimID uuid.UUID) (*domain.VeracityScore, *domain.VeracityScore, error) {
	prior, err := s.scoreStore.GetByClaim(ctx, claimID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}

	evidence, err := s.evidenceStore.ListByClaim(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	credibility := map[uuid.UUID]float64{}

	var supportingSum, refutingSum, weightSum, decaySum float64
	for i := range evidence {
		e := &evidence[i]

		cred, ok := credibility[e.SourceID]
		if !ok {
			cred = s.sourceCredibility(ctx, e.SourceID)
			credibility[e.SourceID] = cred
		}

		w := EffectiveWeight(e, cred, now)
		weightSum += w
		decaySum += Decay(e.RelevantDate, e.DecayRate, now)

		// Unverified evidence contributes to the aggregates above but
		// not to consensus.
		if !e.Verified {
			continue
		}
		switch e.Type {
		case domain.EvidenceSupporting:
			supportingSum += w
		case domain.EvidenceRefuting:
			refutingSum += w
		}
	}

	openDisputes, err := s.disputeStore.CountOpenByClaim(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}

	consensus := ConsensusRatio(supportingSum, refutingSum)
	impact := DisputeImpact(openDisputes)

	decayFactor := 1.0
	if len(evidence) > 0 {
		decayFactor = decaySum / float64(len(evidence))
	}

	vs := &domain.VeracityScore{
		ClaimID:           claimID,
		Score:             clamp01(consensus + impact),
		EvidenceWeightSum: weightSum,
		SupportingWeight:  supportingSum,
		RefutingWeight:    refutingSum,
		EvidenceCount:     len(evidence),
		ConsensusScore:    consensus,
		OpenDisputeCount:  openDisputes,
		DisputeImpact:     impact,
		DecayFactor:       decayFactor,
		Method:            ScoreMethod,
	}
	return vs, prior, nil
}

// sourceCredibility resolves a source's credibility score, defaulting to
// neutral when no record exists yet.
func (s *ScorerService) sourceCredibility(ctx context.Context, sourceID uuid.UUID) float64 {
	sc, err := s.sourceStore.GetCredibility(ctx, sourceID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load source credibility, using neutral default",
				zap.String("source_id", sourceID.String()), zap.Error(err))
		}
		return domain.DefaultSourceCredibility
	}
	return sc.Score
}
