package service

import (
	"math"
	"time"
)

// Decay computes the time-based relevance falloff for a piece of
// evidence: exp(-rate * daysElapsed), clamped to [0,1]. Evidence with no
// relevant date or a zero decay rate does not decay.
func Decay(relevantDate *time.Time, decayRate float64, now time.Time) float64 {
	if relevantDate == nil || decayRate == 0 {
		return 1.0
	}
	days := now.Sub(*relevantDate).Hours() / 24
	if days <= 0 {
		return 1.0
	}
	return clamp01(math.Exp(-decayRate * days))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
