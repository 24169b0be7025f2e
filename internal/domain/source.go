package domain

import (
	"time"

	"github.com/google/uuid"
)

// NeutralConsensusAlignment is the placeholder cross-source agreement
// factor. A richer model would measure how often a source's evidence
// lands on the winning side of consensus; until then every source is
// treated as neutrally aligned. Extension point, not an oversight.
const NeutralConsensusAlignment = 0.5

// DefaultSourceCredibility is used when a source has no credibility
// record yet.
const DefaultSourceCredibility = 0.5

// Source is the provenance of an evidence record.
type Source struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceCredibility is the derived one-to-one credibility record for a
// source, recomputed from raw evidence counts whenever any of the
// source's evidence changes.
type SourceCredibility struct {
	SourceID           uuid.UUID `json:"source_id"`
	Score              float64   `json:"score"`
	VerifiedRatio      float64   `json:"verified_ratio"`
	ChallengeRatio     float64   `json:"challenge_ratio"`
	ConsensusAlignment float64   `json:"consensus_alignment"`
	EvidenceCount      int       `json:"evidence_count"`
	CalculatedAt       time.Time `json:"calculated_at"`
}

// SourceEvidenceCounts are the raw per-source tallies credibility is
// derived from. Reading raw counts, never previously-weighted values,
// is what keeps the evidence/credibility dependency convergent.
type SourceEvidenceCounts struct {
	Total    int
	Verified int
	Disputed int
}
