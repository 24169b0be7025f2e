package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ClaimStore interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
}

type EvidenceStore interface {
	Create(ctx context.Context, e *Evidence) error
	GetByID(ctx context.Context, id uuid.UUID) (*Evidence, error)
	Update(ctx context.Context, e *Evidence) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Evidence, error)
	CountsBySource(ctx context.Context, sourceID uuid.UUID) (SourceEvidenceCounts, error)
}

type SourceStore interface {
	Create(ctx context.Context, s *Source) error
	GetByID(ctx context.Context, id uuid.UUID) (*Source, error)
	GetCredibility(ctx context.Context, sourceID uuid.UUID) (*SourceCredibility, error)
	UpsertCredibility(ctx context.Context, sc *SourceCredibility) error
}

type DisputeStore interface {
	Create(ctx context.Context, d *Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dispute, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status DisputeStatus, resolvedAt *time.Time) error
	CountOpenByClaim(ctx context.Context, claimID uuid.UUID) (int, error)
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Dispute, error)
}

type ScoreStore interface {
	GetByClaim(ctx context.Context, claimID uuid.UUID) (*VeracityScore, error)
	// Upsert writes the single score row for a claim. expectedRevision is
	// the revision the caller read (0 for a fresh claim); a mismatch
	// returns ErrVersionConflict and nothing is written.
	Upsert(ctx context.Context, s *VeracityScore, expectedRevision int) error
	AppendHistory(ctx context.Context, h *ScoreHistory) error
	ListHistory(ctx context.Context, claimID uuid.UUID, limit int) ([]ScoreHistory, error)
}

type ReputationStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*ContributorReputation, error)
	Upsert(ctx context.Context, r *ContributorReputation) error
}

type VoteStore interface {
	Upsert(ctx context.Context, v *ConsensusVote) error
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]ConsensusVote, error)
}

type MethodologyStore interface {
	// GetProgress returns ErrNotFound when the claim has no prescribed
	// process; callers treat that as methodology complete.
	GetProgress(ctx context.Context, claimID uuid.UUID) (*MethodologyProgress, error)
	DefineStep(ctx context.Context, claimID uuid.UUID, name string) error
	MarkStepComplete(ctx context.Context, claimID uuid.UUID, name string) error
}

type PromotionStore interface {
	GetEligibility(ctx context.Context, claimID uuid.UUID) (*PromotionEligibility, error)
	// UpsertEligibility is revision-guarded like ScoreStore.Upsert.
	UpsertEligibility(ctx context.Context, e *PromotionEligibility, expectedRevision int) error
	// Execute performs the one-way promotion atomically: marks the claim
	// immutable, freezes its veracity score at 1.0, and appends the
	// promotion record in a single transaction. Returns ErrNotFound if
	// the claim does not exist and ErrAlreadyPromoted if it is already
	// immutable.
	Execute(ctx context.Context, claimID uuid.UUID, rec *PromotionRecord) error
	ListRecords(ctx context.Context, claimID uuid.UUID) ([]PromotionRecord, error)
}
