package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
)

func TestReputationService_Update(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	rep := &domain.ContributorReputation{
		UserID:            uuid.New(),
		EvidenceQuality:   0.8,
		ConsensusAccuracy: 0.6,
		ProcessCompletion: 1.0,
		DisputeResolution: 0.4,
	}

	if err := eng.reputationSvc.Update(ctx, rep); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// 0.4*0.8 + 0.3*0.6 + 0.2*1.0 + 0.1*0.4
	wantOverall := 0.32 + 0.18 + 0.20 + 0.04
	if math.Abs(rep.Overall-wantOverall) > 1e-9 {
		t.Fatalf("expected overall %f, got %f", wantOverall, rep.Overall)
	}
	wantWeight := 0.5 + wantOverall*1.5
	if math.Abs(rep.VoteWeight-wantWeight) > 1e-9 {
		t.Fatalf("expected vote weight %f, got %f", wantWeight, rep.VoteWeight)
	}
	if rep.Tier != domain.TierActive {
		t.Fatalf("expected tier active, got %s", rep.Tier)
	}
}

func TestReputationService_VoteWeightBounds(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	perfect := &domain.ContributorReputation{
		UserID:            uuid.New(),
		EvidenceQuality:   1.0,
		ConsensusAccuracy: 1.0,
		ProcessCompletion: 1.0,
		DisputeResolution: 1.0,
	}
	if err := eng.reputationSvc.Update(ctx, perfect); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if perfect.VoteWeight != domain.MaxVoteWeight {
		t.Fatalf("expected max vote weight %f, got %f", domain.MaxVoteWeight, perfect.VoteWeight)
	}
	if perfect.Tier != domain.TierVeteran {
		t.Fatalf("expected tier veteran, got %s", perfect.Tier)
	}

	zero := &domain.ContributorReputation{UserID: uuid.New()}
	if err := eng.reputationSvc.Update(ctx, zero); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if zero.VoteWeight != 0.5 {
		t.Fatalf("expected vote weight 0.5 at zero reputation, got %f", zero.VoteWeight)
	}
	if zero.Tier != domain.TierNew {
		t.Fatalf("expected tier new, got %s", zero.Tier)
	}
}

func TestReputationService_Update_Validation(t *testing.T) {
	eng := newEngine()
	ctx := context.Background()

	err := eng.reputationSvc.Update(ctx, &domain.ContributorReputation{})
	if !errors.Is(err, ErrReputationUserIDMissing) {
		t.Fatalf("expected ErrReputationUserIDMissing, got %v", err)
	}

	err = eng.reputationSvc.Update(ctx, &domain.ContributorReputation{
		UserID:          uuid.New(),
		EvidenceQuality: 1.2,
	})
	if !errors.Is(err, ErrReputationOutOfRange) {
		t.Fatalf("expected ErrReputationOutOfRange, got %v", err)
	}
}

func TestReputationService_VoteWeightFor_Default(t *testing.T) {
	eng := newEngine()

	w, err := eng.reputationSvc.VoteWeightFor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if w != domain.DefaultVoteWeight {
		t.Fatalf("expected default weight %f for unknown contributor, got %f", domain.DefaultVoteWeight, w)
	}
}

func TestComputeTier_Boundaries(t *testing.T) {
	cases := []struct {
		overall float64
		want    domain.ReputationTier
	}{
		{0.0, domain.TierNew},
		{0.30, domain.TierNew},
		{0.31, domain.TierContributor},
		{0.60, domain.TierContributor},
		{0.61, domain.TierActive},
		{0.85, domain.TierActive},
		{0.86, domain.TierVeteran},
		{1.0, domain.TierVeteran},
	}

	for _, tc := range cases {
		if got := domain.ComputeTier(tc.overall); got != tc.want {
			t.Fatalf("overall=%f: expected %s, got %s", tc.overall, tc.want, got)
		}
	}
}
