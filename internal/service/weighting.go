package service

import (
	"time"

	"github.com/knograph/veracity/internal/domain"
)

// EffectiveWeight computes one evidence record's contribution weight:
// baseWeight x confidence x decay x sourceCredibility x peerReviewMultiplier,
// clamped to [0,1]. An accepted, fully-weighted item therefore caps at
// 1.0 rather than 1.2. Callers resolve source credibility themselves and
// pass DefaultSourceCredibility when the source has no record.
func EffectiveWeight(e *domain.Evidence, sourceCredibility float64, now time.Time) float64 {
	w := e.BaseWeight *
		e.Confidence *
		Decay(e.RelevantDate, e.DecayRate, now) *
		sourceCredibility *
		e.PeerReview.Multiplier()
	return clamp01(w)
}
