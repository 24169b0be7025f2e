package service

import (
	"math"
	"testing"
	"time"
)

func TestDecay_NoRelevantDate(t *testing.T) {
	if got := Decay(nil, 0.1, time.Now()); got != 1.0 {
		t.Fatalf("expected 1.0 for evidence without a relevant date, got %f", got)
	}
}

func TestDecay_ZeroRate(t *testing.T) {
	date := time.Now().AddDate(-1, 0, 0)
	if got := Decay(&date, 0, time.Now()); got != 1.0 {
		t.Fatalf("expected 1.0 for zero decay rate, got %f", got)
	}
}

func TestDecay_FutureDate(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)
	if got := Decay(&date, 0.1, time.Now()); got != 1.0 {
		t.Fatalf("expected 1.0 for a future relevant date, got %f", got)
	}
}

func TestDecay_Exponential(t *testing.T) {
	now := time.Now()
	date := now.AddDate(0, 0, -10)

	got := Decay(&date, 0.05, now)
	want := math.Exp(-0.05 * 10)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestDecay_NonIncreasing(t *testing.T) {
	now := time.Now()
	prev := 1.0
	for days := 1; days <= 365; days += 30 {
		date := now.AddDate(0, 0, -days)
		got := Decay(&date, 0.02, now)
		if got > prev {
			t.Fatalf("decay increased at day %d: %f > %f", days, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("decay out of range at day %d: %f", days, got)
		}
		prev = got
	}
}
