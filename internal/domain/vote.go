package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConsensusVote is one contributor's promotion-readiness vote for a
// claim: a value in [0,1] with a weight snapshotted from the voter's
// reputation at cast time. One row per (claim, voter); re-casting
// overwrites.
type ConsensusVote struct {
	ClaimID uuid.UUID `json:"claim_id"`
	VoterID uuid.UUID `json:"voter_id"`
	Value   float64   `json:"value"`
	Weight  float64   `json:"weight"`
	CastAt  time.Time `json:"cast_at"`
}
