package alerts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service coordinates forecast fetches, the (user, field) cache, update
// broadcasts, and high-priority webhook notifications.
type Service struct {
	source   ForecastSource
	cache    *Cache
	hub      *Hub
	notifier *WebhookNotifier
	logger   *zap.Logger
}

// NewService creates a new alerts service.
func NewService(source ForecastSource, cache *Cache, hub *Hub, notifier *WebhookNotifier, logger *zap.Logger) *Service {
	return &Service{
		source:   source,
		cache:    cache,
		hub:      hub,
		notifier: notifier,
		logger:   logger,
	}
}

// GetAlerts returns the cached alert set for (user, field) when one exists
// for that exact field, otherwise fetches fresh data and caches it.
func (s *Service) GetAlerts(ctx context.Context, userID, fieldID string, lat, lng float64) (*ForecastBundle, bool, error) {
	if entry, ok := s.cache.Get(userID, fieldID); ok {
		return entry.Bundle, true, nil
	}

	bundle, err := s.Refresh(ctx, userID, fieldID, lat, lng)
	if err != nil {
		return nil, false, err
	}
	return bundle, false, nil
}

// Refresh always fetches fresh forecasts, replaces the cache entry, and
// notifies the user's other open views.
func (s *Service) Refresh(ctx context.Context, userID, fieldID string, lat, lng float64) (*ForecastBundle, error) {
	bundle, err := s.source.Forecast(ctx, fieldID, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	s.cache.Set(userID, fieldID, lat, lng, bundle)
	s.hub.Broadcast(userID, UpdateEvent{
		FieldID:  fieldID,
		CacheKey: Key(userID, fieldID),
	})

	if bundle.Priority == "high" && s.notifier.Enabled() {
		if err := s.notifier.Notify(ctx, userID, bundle); err != nil {
			// Webhook delivery is best-effort; the alert data itself is fine.
			s.logger.Warn("Alert webhook delivery failed",
				zap.Error(err),
				zap.String("field_id", fieldID))
		}
	}

	return bundle, nil
}

// Invalidate drops the cached alerts for (user, field).
func (s *Service) Invalidate(userID, fieldID string) {
	s.cache.Delete(userID, fieldID)
}

// RefreshAll re-fetches every cached (user, field) entry and rebroadcasts.
// Used by the background scheduler; individual failures are logged and do
// not stop the sweep.
func (s *Service) RefreshAll(ctx context.Context) {
	for key, entry := range s.cache.Snapshot() {
		userID, fieldID, ok := splitKey(key)
		if !ok || fieldID != entry.FieldID {
			continue
		}

		if _, err := s.Refresh(ctx, userID, fieldID, entry.Lat, entry.Lng); err != nil {
			s.logger.Warn("Scheduled alert refresh failed",
				zap.Error(err),
				zap.String("cache_key", key))
		}
	}
}

func splitKey(key string) (userID, fieldID string, ok bool) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
