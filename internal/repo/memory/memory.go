package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rivergate/proxywatch/internal/domain"
	"github.com/rivergate/proxywatch/internal/repo"
)

var _ repo.ConfigStore = (*Store)(nil)
var _ repo.StatusStore = (*Store)(nil)

// Store keeps everything in process memory. It backs DB-less runs and tests;
// configuration is seeded through the setters rather than read from anywhere.
type Store struct {
	mu       sync.RWMutex
	hosts    []domain.ProxyHost
	streams  []domain.Stream
	groups   map[int64]domain.Group
	settings map[string]string
	records  []*domain.HealthRecord
	nextID   int64
}

func New() *Store {
	return &Store{
		groups:   make(map[int64]domain.Group),
		settings: make(map[string]string),
		records:  make([]*domain.HealthRecord, 0, 128),
		nextID:   1,
	}
}

// ---- seeding (tests and DB-less runs) ----

func (m *Store) SetProxyHosts(hosts []domain.ProxyHost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hosts = hosts
}

func (m *Store) SetStreams(streams []domain.Stream) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = streams
}

func (m *Store) SetGroup(g domain.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
}

func (m *Store) SetSetting(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
}

// ---- ConfigStore ----

func (m *Store) EnabledProxyHosts(ctx context.Context) ([]domain.ProxyHost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ProxyHost, 0, len(m.hosts))
	for _, h := range m.hosts {
		if h.Enabled {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *Store) EnabledStreams(ctx context.Context) ([]domain.Stream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Stream, 0, len(m.streams))
	for _, s := range m.streams {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Store) Group(ctx context.Context, id int64) (*domain.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, nil
	}
	gg := g
	return &gg, nil
}

func (m *Store) Setting(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[key], nil
}

// ---- StatusStore ----

func (m *Store) Append(ctx context.Context, rec *domain.HealthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.ID = m.nextID
	m.nextID++
	m.records = append(m.records, &cp)
	rec.ID = cp.ID
	return nil
}

func (m *Store) LatestStatus(ctx context.Context, entityID int64, kind domain.EntityKind, upstreamKey string) (*domain.HealthRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.HealthRecord
	for _, r := range m.records {
		if r.EntityID != entityID || r.EntityKind != kind || r.UpstreamKey != upstreamKey {
			continue
		}
		// ties on checked_at go to the later append
		if best == nil || !r.CheckedAt.Before(best.CheckedAt) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *Store) LatestAll(ctx context.Context) ([]domain.HealthRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type triple struct {
		id   int64
		kind domain.EntityKind
		key  string
	}
	latest := make(map[triple]*domain.HealthRecord)
	order := make([]triple, 0)
	for _, r := range m.records {
		k := triple{r.EntityID, r.EntityKind, r.UpstreamKey}
		cur, ok := latest[k]
		if !ok {
			order = append(order, k)
		}
		if cur == nil || !r.CheckedAt.Before(cur.CheckedAt) {
			latest[k] = r
		}
	}

	out := make([]domain.HealthRecord, 0, len(latest))
	for _, k := range order {
		out = append(out, *latest[k])
	}
	return out, nil
}

func (m *Store) History(ctx context.Context, entityID int64, kind domain.EntityKind, since time.Time) ([]domain.HealthRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.HealthRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.EntityID == entityID && r.EntityKind == kind && !r.CheckedAt.Before(since) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	var removed int64
	for _, r := range m.records {
		if r.CheckedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return removed, nil
}
