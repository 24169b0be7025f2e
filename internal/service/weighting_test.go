package service

import (
	"math"
	"testing"
	"time"

	"github.com/knograph/veracity/internal/domain"
)

func TestEffectiveWeight_NeutralSource(t *testing.T) {
	e := &domain.Evidence{
		Type:       domain.EvidenceSupporting,
		BaseWeight: 0.8,
		Confidence: 1.0,
		Verified:   true,
		PeerReview: domain.PeerReviewPending,
	}

	got := EffectiveWeight(e, domain.DefaultSourceCredibility, time.Now())
	if math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("expected 0.8*1.0*1.0*0.5*1.0 = 0.4, got %f", got)
	}
}

func TestEffectiveWeight_PeerReviewMultipliers(t *testing.T) {
	cases := []struct {
		status domain.PeerReviewStatus
		want   float64
	}{
		{domain.PeerReviewAccepted, 0.8 * 0.5 * 1.2},
		{domain.PeerReviewDisputed, 0.8 * 0.5 * 0.8},
		{domain.PeerReviewRejected, 0.8 * 0.5 * 0.5},
		{domain.PeerReviewPending, 0.8 * 0.5 * 1.0},
	}

	for _, tc := range cases {
		e := &domain.Evidence{
			BaseWeight: 0.8,
			Confidence: 1.0,
			PeerReview: tc.status,
		}
		got := EffectiveWeight(e, 0.5, time.Now())
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("status %s: expected %f, got %f", tc.status, tc.want, got)
		}
	}
}

func TestEffectiveWeight_ClampedAtOne(t *testing.T) {
	e := &domain.Evidence{
		BaseWeight: 1.0,
		Confidence: 1.0,
		PeerReview: domain.PeerReviewAccepted,
	}

	// 1.0*1.0*1.0*1.0*1.2 would exceed 1 without the clamp.
	if got := EffectiveWeight(e, 1.0, time.Now()); got != 1.0 {
		t.Fatalf("expected clamp at 1.0, got %f", got)
	}
}

func TestEffectiveWeight_DecayApplied(t *testing.T) {
	date := time.Now().AddDate(0, 0, -30)
	e := &domain.Evidence{
		BaseWeight:   1.0,
		Confidence:   1.0,
		DecayRate:    0.1,
		RelevantDate: &date,
		PeerReview:   domain.PeerReviewPending,
	}

	got := EffectiveWeight(e, 1.0, time.Now())
	want := Decay(&date, 0.1, time.Now())
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected weight to equal decay %f, got %f", want, got)
	}
}

func TestEffectiveWeight_ZeroConfidence(t *testing.T) {
	e := &domain.Evidence{
		BaseWeight: 1.0,
		Confidence: 0.0,
		PeerReview: domain.PeerReviewAccepted,
	}
	if got := EffectiveWeight(e, 1.0, time.Now()); got != 0.0 {
		t.Fatalf("expected 0 for zero confidence, got %f", got)
	}
}
