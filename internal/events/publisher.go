package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/knograph/veracity/internal/domain"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectScoreChanged  = "veracity.score.changed"
	SubjectClaimPromoted = "veracity.claim.promoted"
)

// ScoreChangedEvent is published whenever a claim's score moves enough
// to be audited.
type ScoreChangedEvent struct {
	ClaimID   string    `json:"claim_id"`
	OldScore  float64   `json:"old_score"`
	NewScore  float64   `json:"new_score"`
	Delta     float64   `json:"delta"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ClaimPromotedEvent is published exactly once per claim, at promotion.
type ClaimPromotedEvent struct {
	ClaimID   string                   `json:"claim_id"`
	FromLevel string                   `json:"from_level"`
	ToLevel   string                   `json:"to_level"`
	Criteria  domain.PromotionCriteria `json:"criteria"`
	Trigger   string                   `json:"trigger"`
	Timestamp time.Time                `json:"timestamp"`
}

// NATSPublisher emits engine events for the reporting and notification
// collaborators.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, logger *zap.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func (p *NATSPublisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.nc.Publish(subject, data)
}

func (p *NATSPublisher) ScoreChanged(ctx context.Context, h *domain.ScoreHistory) error {
	return p.publish(SubjectScoreChanged, ScoreChangedEvent{
		ClaimID:   h.ClaimID.String(),
		OldScore:  h.OldScore,
		NewScore:  h.NewScore,
		Delta:     h.Delta,
		Reason:    string(h.Reason),
		Timestamp: time.Now().UTC(),
	})
}

func (p *NATSPublisher) ClaimPromoted(ctx context.Context, rec *domain.PromotionRecord) error {
	return p.publish(SubjectClaimPromoted, ClaimPromotedEvent{
		ClaimID:   rec.ClaimID.String(),
		FromLevel: string(rec.FromLevel),
		ToLevel:   string(rec.ToLevel),
		Criteria:  rec.Criteria,
		Trigger:   rec.TriggeredBy,
		Timestamp: time.Now().UTC(),
	})
}

func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) ScoreChanged(ctx context.Context, h *domain.ScoreHistory) error { return nil }

func (NoopPublisher) ClaimPromoted(ctx context.Context, rec *domain.PromotionRecord) error {
	return nil
}
