package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/store"
	"go.uber.org/zap"
)

var (
	ErrClaimImmutable         = errors.New("claim is immutable and no longer accepts changes")
	ErrEvidenceNotFound       = errors.New("evidence not found")
	ErrEvidenceTargetInvalid  = errors.New("evidence must target exactly one claim, never both a node and an edge")
	ErrEvidenceInvalidType    = errors.New("invalid evidence type")
	ErrEvidenceInvalidReview  = errors.New("invalid peer review status")
	ErrEvidenceWeightRange    = errors.New("base_weight must be within [0,1]")
	ErrEvidenceConfRange      = errors.New("confidence must be within [0,1]")
	ErrEvidenceRelevanceRange = errors.New("temporal_relevance must be within [0,1]")
	ErrEvidenceDecayNegative  = errors.New("decay_rate must be >= 0")
	ErrSourceNotFound         = errors.New("source not found")
)

// EvidenceService validates and persists evidence, then synchronously
// runs the recompute chain: source credibility, veracity score,
// promotion eligibility. The whole chain runs inside the triggering
// call; there is no background processing.
type EvidenceService struct {
	evidenceStore domain.EvidenceStore
	claimStore    domain.ClaimStore
	sourceStore   domain.SourceStore
	credibility   *CredibilityService
	scorer        *ScorerService
	promotion     *PromotionService
	logger        *zap.Logger
}

func NewEvidenceService(es domain.EvidenceStore, cs domain.ClaimStore, ss domain.SourceStore,
	credibility *CredibilityService, scorer *ScorerService, promotion *PromotionService,
	logger *zap.Logger) *EvidenceService {
	return &EvidenceService{
		evidenceStore: es,
		claimStore:    cs,
		sourceStore:   ss,
		credibility:   credibility,
		scorer:        scorer,
		promotion:     promotion,
		logger:        logger,
	}
}

// validate rejects invariant violations and out-of-range input at the
// boundary. Input is never silently clamped; only internal computed
// values are.
func (s *EvidenceService) validate(e *domain.Evidence) error {
	if !e.HasExactlyOneTarget() {
		return ErrEvidenceTargetInvalid
	}
	if !domain.ValidEvidenceType(string(e.Type)) {
		return ErrEvidenceInvalidType
	}
	if e.PeerReview != "" && !domain.ValidPeerReviewStatus(string(e.PeerReview)) {
		return ErrEvidenceInvalidReview
	}
	if e.BaseWeight < 0 || e.BaseWeight > 1 {
		return ErrEvidenceWeightRange
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return ErrEvidenceConfRange
	}
	if e.TemporalRelevance < 0 || e.TemporalRelevance > 1 {
		return ErrEvidenceRelevanceRange
	}
	if e.DecayRate < 0 {
		return ErrEvidenceDecayNegative
	}
	return nil
}

func (s *EvidenceService) mutableClaim(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	claim, err := s.claimStore.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	if claim.Immutable {
		return nil, ErrClaimImmutable
	}
	return claim, nil
}

// Submit creates a new evidence record and runs the recompute chain.
func (s *EvidenceService) Submit(ctx context.Context, e *domain.Evidence) error {
	if err := s.validate(e); err != nil {
		return err
	}
	if _, err := s.mutableClaim(ctx, e.ClaimID()); err != nil {
		return err
	}
	if _, err := s.sourceStore.GetByID(ctx, e.SourceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSourceNotFound
		}
		return err
	}

	if err := s.evidenceStore.Create(ctx, e); err != nil {
		return err
	}

	return s.recompute(ctx, e, domain.ReasonNewEvidence, "evidence_submitted")
}

// Update edits an existing evidence record (type, weights, verification,
// peer-review state) and runs the recompute chain.
func (s *EvidenceService) Update(ctx context.Context, e *domain.Evidence) error {
	existing, err := s.evidenceStore.GetByID(ctx, e.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEvidenceNotFound
		}
		return err
	}
	// Targets and source are fixed at submission.
	e.TargetNodeID = existing.TargetNodeID
	e.TargetEdgeID = existing.TargetEdgeID
	e.SourceID = existing.SourceID
	e.SubmittedBy = existing.SubmittedBy

	if err := s.validate(e); err != nil {
		return err
	}
	if _, err := s.mutableClaim(ctx, e.ClaimID()); err != nil {
		return err
	}

	if err := s.evidenceStore.Update(ctx, e); err != nil {
		return err
	}

	return s.recompute(ctx, e, domain.ReasonNewEvidence, "evidence_updated")
}

// Remove deletes an evidence record and runs the recompute chain.
func (s *EvidenceService) Remove(ctx context.Context, id uuid.UUID) error {
	e, err := s.evidenceStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEvidenceNotFound
		}
		return err
	}
	if _, err := s.mutableClaim(ctx, e.ClaimID()); err != nil {
		return err
	}

	if err := s.evidenceStore.Delete(ctx, id); err != nil {
		return err
	}

	return s.recompute(ctx, e, domain.ReasonEvidenceRemoved, "evidence_removed")
}

func (s *EvidenceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evidence, error) {
	e, err := s.evidenceStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEvidenceNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EvidenceService) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Evidence, error) {
	return s.evidenceStore.ListByClaim(ctx, claimID)
}

// recompute is the explicit application-level orchestration that
// replaces the database-trigger cascade of the source design: source
// credibility from raw counts first, then the claim's score, then
// promotion eligibility.
func (s *EvidenceService) recompute(ctx context.Context, e *domain.Evidence, reason domain.ScoreReason, trigger string) error {
	if _, err := s.credibility.Recompute(ctx, e.SourceID); err != nil {
		return err
	}

	evidenceID := e.ID
	if _, err := s.scorer.Refresh(ctx, e.ClaimID(), reason, &evidenceID); err != nil {
		return err
	}

	if _, err := s.promotion.Reevaluate(ctx, e.ClaimID(), trigger); err != nil {
		return err
	}

	return nil
}
