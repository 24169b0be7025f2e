package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
)

// makeEligible sets up a claim that satisfies every promotion criterion:
// no prescribed methodology, quality evidence, enough unanimous votes,
// and no disputes.
func makeEligible(eng *engine) *domain.Claim {
	claim := eng.addClaim(false)
	src := eng.addSource(0.9)
	eng.addVerifiedEvidence(claim.ID, src.ID, domain.EvidenceSupporting, 1.0)
	castVotes(eng, claim.ID, 1.0, 1.0, 6)
	return claim
}

func TestPromotionService_PromotesEligibleClaim(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()
	claim := makeEligible(eng)

	elig, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "vote_cast")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !elig.Eligible {
		t.Fatalf("expected claim to be eligible, got %+v", elig)
	}

	if !claim.Immutable {
		t.Fatal("expected claim to be immutable after promotion")
	}
	if claim.PromotedAt == nil {
		t.Fatal("expected promoted_at to be set")
	}

	score := eng.scores.scores[claim.ID]
	if score == nil || score.Score != 1.0 {
		t.Fatalf("expected score frozen at 1.0, got %+v", score)
	}

	records, _ := eng.promotions.ListRecords(ctx, claim.ID)
	if len(records) != 1 {
		t.Fatalf("expected exactly one promotion record, got %d", len(records))
	}
	rec := records[0]
	if rec.FromLevel != domain.LevelProvisional || rec.ToLevel != domain.LevelPromoted {
		t.Fatalf("unexpected level transition %s -> %s", rec.FromLevel, rec.ToLevel)
	}
	if rec.Criteria.OverallScore != elig.OverallScore {
		t.Fatalf("criteria snapshot %f does not match eligibility %f",
			rec.Criteria.OverallScore, elig.OverallScore)
	}
	if rec.TriggeredBy != "vote_cast" {
		t.Fatalf("expected trigger vote_cast, got %s", rec.TriggeredBy)
	}

	if len(eng.events.promotions) != 1 {
		t.Fatalf("expected one promotion event, got %d", len(eng.events.promotions))
	}
}

func TestPromotionService_PromotesExactlyOnce(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()
	claim := makeEligible(eng)

	if _, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "vote_cast"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "manual"); err != nil {
		t.Fatalf("expected no error on re-evaluation of promoted claim, got %v", err)
	}

	records, _ := eng.promotions.ListRecords(ctx, claim.ID)
	if len(records) != 1 {
		t.Fatalf("promotion must happen exactly once, got %d records", len(records))
	}
}

func TestPromotionService_IneligibleClaimNotPromoted(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	claim := eng.addClaim(false)
	castVotes(eng, claim.ID, 1.0, 1.0, 2)

	elig, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "vote_cast")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if elig.Eligible {
		t.Fatal("expected claim to be ineligible")
	}
	if claim.Immutable {
		t.Fatal("ineligible claim must not be promoted")
	}
}

func TestPromotionService_ExecuteFailureLeavesClaimUntouched(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()
	claim := makeEligible(eng)

	boom := errors.New("tx aborted")
	eng.promotions.failExecute = boom

	_, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "vote_cast")
	if !errors.Is(err, boom) {
		t.Fatalf("expected execute failure to propagate, got %v", err)
	}
	if claim.Immutable {
		t.Fatal("failed promotion must not leave the claim immutable")
	}
	if len(eng.promotions.records) != 0 {
		t.Fatal("failed promotion must not record history")
	}
}

func TestPromotionService_ConcurrentWinnerTolerated(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()
	claim := makeEligible(eng)

	// Seed a snapshot, then promote the claim behind the service's back
	// as a concurrent trigger would.
	if _, err := eng.eligibilitySvc.Evaluate(ctx, claim.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	claim.Immutable = true

	elig, err := eng.promotionSvc.Reevaluate(ctx, claim.ID, "vote_cast")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if elig == nil {
		t.Fatal("expected the stored eligibility snapshot")
	}

	records, _ := eng.promotions.ListRecords(ctx, claim.ID)
	if len(records) != 0 {
		t.Fatalf("concurrent winner already promoted; expected no new records, got %d", len(records))
	}
}

func TestPromotionService_UnknownClaim(t *testing.T) {
	eng := newEngine()

	_, err := eng.promotionSvc.Reevaluate(context.Background(), uuid.New(), "manual")
	if !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}
}
