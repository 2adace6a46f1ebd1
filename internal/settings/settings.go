package settings

import (
	"context"
	"strconv"
	"time"

	"github.com/rivergate/proxywatch/internal/repo"
)

// Keys in the admin app's settings table.
const (
	KeyIntervalMS    = "watchdog_interval_ms"
	KeyRetentionDays = "health_retention_days"
	KeyGlobalWebhook = "global_webhook_url"
)

const (
	DefaultInterval      = 30 * time.Second
	DefaultRetentionDays = 7
)

// Service resolves tunables from the settings table, falling back to defaults
// when a key is absent, empty, or unparsable.
type Service struct {
	store repo.ConfigStore
}

func New(store repo.ConfigStore) *Service {
	return &Service{store: store}
}

func (s *Service) Interval(ctx context.Context) time.Duration {
	v, err := s.store.Setting(ctx, KeyIntervalMS)
	if err != nil || v == "" {
		return DefaultInterval
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return DefaultInterval
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Service) RetentionDays(ctx context.Context) int {
	v, err := s.store.Setting(ctx, KeyRetentionDays)
	if err != nil || v == "" {
		return DefaultRetentionDays
	}
	d, err := strconv.Atoi(v)
	if err != nil || d <= 0 {
		return DefaultRetentionDays
	}
	return d
}

func (s *Service) GlobalWebhookURL(ctx context.Context) string {
	v, err := s.store.Setting(ctx, KeyGlobalWebhook)
	if err != nil {
		return ""
	}
	return v
}
