package repo

import (
	"context"
	"time"

	"github.com/rivergate/proxywatch/internal/domain"
)

// Ports (interfaces) — the watchdog never touches a database handle directly,
// so any adapter (postgres, memory) can sit behind these.

// ConfigStore is read-only access to the admin app's configuration tables.
type ConfigStore interface {
	// EnabledProxyHosts returns only hosts whose enabled flag is set.
	EnabledProxyHosts(ctx context.Context) ([]domain.ProxyHost, error)
	// EnabledStreams returns only streams whose enabled flag is set.
	EnabledStreams(ctx context.Context) ([]domain.Stream, error)
	// Group returns nil, nil when no such group exists.
	Group(ctx context.Context, id int64) (*domain.Group, error)
	// Setting returns "" when the key is absent.
	Setting(ctx context.Context, key string) (string, error)
}

// StatusStore owns the append-only probe history.
type StatusStore interface {
	// LatestStatus returns the most recent record for the triple, or nil, nil
	// when the triple has never been probed. "Never probed" must stay
	// distinguishable from a stored down status.
	LatestStatus(ctx context.Context, entityID int64, kind domain.EntityKind, upstreamKey string) (*domain.HealthRecord, error)
	// Append stores a new record; existing records are never touched.
	Append(ctx context.Context, rec *domain.HealthRecord) error
	// LatestAll returns the most recent record per triple, for the status API.
	LatestAll(ctx context.Context) ([]domain.HealthRecord, error)
	// History returns records for one entity newer than since, newest first.
	History(ctx context.Context, entityID int64, kind domain.EntityKind, since time.Time) ([]domain.HealthRecord, error)
	// DeleteOlderThan removes records with checked_at strictly before cutoff
	// and reports how many went away. A record stamped exactly at the cutoff
	// survives.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
