package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	digest "github.com/Sc0remac/cadenzor/internal/digest/domain"
	priority "github.com/Sc0remac/cadenzor/internal/priority/domain"
	"github.com/Sc0remac/cadenzor/internal/shared/infrastructure/eventbus"
	"github.com/Sc0remac/cadenzor/pkg/observability"
)

// RoutingKeyDigestGenerated is published after every successful build.
const RoutingKeyDigestGenerated = "digest.generated"

// PayloadCache caches built digests per user.
type PayloadCache interface {
	Store(ctx context.Context, userID uuid.UUID, payload digest.Payload) error
	Fetch(ctx context.Context, userID uuid.UUID) (digest.Payload, error)
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// DigestService builds digests, caches them, and announces new builds on
// the event bus.
type DigestService struct {
	cache     PayloadCache
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
	limits    DigestLimits
}

// NewDigestService wires a service. Cache and publisher may be nil; the
// service then builds without caching or events.
func NewDigestService(cache PayloadCache, publisher eventbus.Publisher, logger *slog.Logger, limits DigestLimits) *DigestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestService{
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		metrics:   observability.NoopMetrics{},
		limits:    limits,
	}
}

// WithMetrics replaces the no-op metrics collector.
func (s *DigestService) WithMetrics(metrics observability.Metrics) *DigestService {
	if metrics != nil {
		s.metrics = metrics
	}
	return s
}

// digestGeneratedEvent is the wire shape of a digest.generated event.
type digestGeneratedEvent struct {
	UserID      uuid.UUID `json:"user_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Projects    int       `json:"projects"`
	TopActions  int       `json:"top_actions"`
}

// Generate builds a fresh digest for the user, caches it, and publishes a
// digest.generated event. Cache and publish failures are logged but never
// fail the build; the caller still gets the payload.
func (s *DigestService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	inputs []ProjectInput,
	cfg *priority.ScoringConfig,
	now time.Time,
) (digest.Payload, error) {
	timer := observability.StartTimer("digest.generate").
		WithLogger(s.logger).
		WithMetrics(s.metrics)
	defer timer.Stop()

	payload := BuildDigest(inputs, cfg, now, s.limits)
	s.metrics.Counter(observability.MetricDigestsGenerated, 1)

	if s.cache != nil {
		if err := s.cache.Store(ctx, userID, payload); err != nil {
			s.logger.Warn("failed to cache digest", "user_id", userID, "error", err)
		}
	}

	if s.publisher != nil {
		event := digestGeneratedEvent{
			UserID:      userID,
			GeneratedAt: payload.GeneratedAt,
			Projects:    len(payload.Projects),
			TopActions:  len(payload.TopActions),
		}
		raw, err := json.Marshal(event)
		if err != nil {
			return digest.Payload{}, fmt.Errorf("failed to serialize digest event: %w", err)
		}
		if err := s.publisher.Publish(ctx, RoutingKeyDigestGenerated, raw); err != nil {
			s.logger.Warn("failed to publish digest event", "user_id", userID, "error", err)
		}
	}

	return payload, nil
}

// Cached returns the user's cached digest, or digest.ErrNotCached.
func (s *DigestService) Cached(ctx context.Context, userID uuid.UUID) (digest.Payload, error) {
	if s.cache == nil {
		return digest.Payload{}, digest.ErrNotCached
	}
	payload, err := s.cache.Fetch(ctx, userID)
	if err != nil {
		s.metrics.Counter(observability.MetricDigestCacheMiss, 1)
		return digest.Payload{}, err
	}
	s.metrics.Counter(observability.MetricDigestCacheHits, 1)
	return payload, nil
}

// Invalidate drops the user's cached digest.
func (s *DigestService) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, userID)
}
