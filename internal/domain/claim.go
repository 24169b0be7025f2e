package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClaimKind string

const (
	ClaimKindNode ClaimKind = "node"
	ClaimKindEdge ClaimKind = "edge"
)

func ValidClaimKind(k string) bool {
	switch ClaimKind(k) {
	case ClaimKindNode, ClaimKindEdge:
		return true
	}
	return false
}

// PromotionLevel is the claim lifecycle state. There are exactly two:
// provisional claims are mutable and scored dynamically, promoted claims
// are immutable with their score fixed at 1.0.
type PromotionLevel string

const (
	LevelProvisional PromotionLevel = "provisional"
	LevelPromoted    PromotionLevel = "promoted"
)

// Claim is a node or edge in the knowledge graph whose truthfulness is
// tracked by this engine. The graph subsystem owns creation; this engine
// only ever flips Immutable to true, exactly once, at promotion.
type Claim struct {
	ID         uuid.UUID  `json:"id"`
	Kind       ClaimKind  `json:"kind"`
	Statement  string     `json:"statement"`
	Immutable  bool       `json:"immutable"`
	PromotedAt *time.Time `json:"promoted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (c *Claim) Level() PromotionLevel {
	if c.Immutable {
		return LevelPromoted
	}
	return LevelProvisional
}
