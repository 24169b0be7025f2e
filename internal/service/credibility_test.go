package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
)

func TestCredibilityFromCounts_NoEvidence(t *testing.T) {
	score, verified, challenge := CredibilityFromCounts(domain.SourceEvidenceCounts{})

	// 0.4*0 + 0.3*(1-0) + 0.3*0.5
	if math.Abs(score-0.45) > 1e-9 {
		t.Fatalf("expected 0.45 for a source with no evidence, got %f", score)
	}
	if verified != 0 || challenge != 0 {
		t.Fatalf("expected zero ratios, got %f / %f", verified, challenge)
	}
}

func TestCredibilityFromCounts_Blend(t *testing.T) {
	score, verified, challenge := CredibilityFromCounts(domain.SourceEvidenceCounts{
		Total:    10,
		Verified: 8,
		Disputed: 1,
	})

	if math.Abs(verified-0.8) > 1e-9 {
		t.Fatalf("expected verified ratio 0.8, got %f", verified)
	}
	if math.Abs(challenge-0.1) > 1e-9 {
		t.Fatalf("expected challenge ratio 0.1, got %f", challenge)
	}
	// 0.4*0.8 + 0.3*0.9 + 0.3*0.5
	want := 0.32 + 0.27 + 0.15
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, score)
	}
}

func TestCredibilityFromCounts_AllDisputed(t *testing.T) {
	score, _, _ := CredibilityFromCounts(domain.SourceEvidenceCounts{
		Total:    4,
		Disputed: 4,
	})

	// 0.4*0 + 0.3*0 + 0.3*0.5
	if math.Abs(score-0.15) > 1e-9 {
		t.Fatalf("expected 0.15, got %f", score)
	}
}

func TestCredibilityService_Recompute(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	claim := eng.addClaim(false)
	src := &domain.Source{ID: uuid.New(), Name: "lab"}
	eng.sources.sources[src.ID] = src

	ev := eng.addVerifiedEvidence(claim.ID, src.ID, domain.EvidenceSupporting, 0.8)
	ev.PeerReview = domain.PeerReviewDisputed

	sc, err := eng.credibilitySvc.Recompute(ctx, src.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sc.EvidenceCount != 1 {
		t.Fatalf("expected evidence count 1, got %d", sc.EvidenceCount)
	}
	// 1 total, 1 verified, 1 disputed: 0.4*1 + 0.3*0 + 0.15
	if math.Abs(sc.Score-0.55) > 1e-9 {
		t.Fatalf("expected 0.55, got %f", sc.Score)
	}

	stored, ok := eng.sources.credibility[src.ID]
	if !ok {
		t.Fatal("expected credibility record to be persisted")
	}
	if stored.Score != sc.Score {
		t.Fatalf("persisted score %f does not match returned %f", stored.Score, sc.Score)
	}
}
