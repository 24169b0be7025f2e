package service

// NeutralConsensus is returned when a claim has no verified supporting
// or refuting evidence to take a position on.
const NeutralConsensus = 0.5

const (
	// DisputePenaltyPerOpen is the linear score penalty per open dispute.
	DisputePenaltyPerOpen = 0.05
	// MaxDisputePenalty is the hard floor on the total dispute impact.
	MaxDisputePenalty = 0.5
)

// ConsensusRatio converts supporting and refuting effective-weight sums
// into a 0..1 agreement ratio. Both sums zero means the community has no
// verified signal either way: neutral 0.5.
func ConsensusRatio(supportingSum, refutingSum float64) float64 {
	total := supportingSum + refutingSum
	if total == 0 {
		return NeutralConsensus
	}
	return supportingSum / total
}

// DisputeImpact converts the open-dispute count into a bounded penalty:
// max(-0.5, -0.05 * openCount).
func DisputeImpact(openDisputes int) float64 {
	impact := -DisputePenaltyPerOpen * float64(openDisputes)
	if impact < -MaxDisputePenalty {
		return -MaxDisputePenalty
	}
	return impact
}
