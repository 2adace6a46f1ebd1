package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rivergate/proxywatch/internal/domain"
)

// Minimal schema so the test can run on a fresh DB/volume. The config tables
// mirror the admin app's; health_records is the one this adapter owns.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS groups (
  id          BIGSERIAL PRIMARY KEY,
  name        TEXT NOT NULL,
  webhook_url TEXT NULL
);

CREATE TABLE IF NOT EXISTS proxy_hosts (
  id          BIGSERIAL PRIMARY KEY,
  domain      TEXT NOT NULL,
  enabled     BOOLEAN NOT NULL DEFAULT TRUE,
  group_id    BIGINT NULL REFERENCES groups(id),
  webhook_url TEXT NULL,
  locations   JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS streams (
  id          BIGSERIAL PRIMARY KEY,
  listen_port INTEGER NOT NULL,
  protocol    TEXT NOT NULL,
  enabled     BOOLEAN NOT NULL DEFAULT TRUE,
  group_id    BIGINT NULL REFERENCES groups(id),
  webhook_url TEXT NULL,
  upstreams   JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS health_records (
  id           BIGSERIAL PRIMARY KEY,
  entity_id    BIGINT NOT NULL,
  entity_kind  TEXT NOT NULL,
  upstream_key TEXT NOT NULL,
  status       TEXT NOT NULL,
  response_ms  DOUBLE PRECISION NULL,
  checked_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_health_triple_time
  ON health_records (entity_id, entity_kind, upstream_key, checked_at DESC);
CREATE INDEX IF NOT EXISTS idx_health_checked_at
  ON health_records (checked_at DESC);
`

func ensureSchema(t *testing.T, dsn string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM health_records`); err != nil {
		t.Fatalf("clean health_records: %v", err)
	}
}

func TestPostgres_AppendLatestDelete(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ensureSchema(t, dsn)

	ctx := context.Background()
	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	// none yet
	rec, err := store.LatestStatus(ctx, 1, domain.KindProxyRoute, "10.0.0.5:8080")
	if err != nil || rec != nil {
		t.Fatalf("expected nil, nil, got %+v err=%v", rec, err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	ms := 12.5
	first := &domain.HealthRecord{
		EntityID: 1, EntityKind: domain.KindProxyRoute, UpstreamKey: "10.0.0.5:8080",
		Status: domain.StatusUp, ResponseMS: &ms, CheckedAt: base,
	}
	if err := store.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected generated id")
	}
	second := &domain.HealthRecord{
		EntityID: 1, EntityKind: domain.KindProxyRoute, UpstreamKey: "10.0.0.5:8080",
		Status: domain.StatusDown, CheckedAt: base.Add(time.Minute),
	}
	if err := store.Append(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err = store.LatestStatus(ctx, 1, domain.KindProxyRoute, "10.0.0.5:8080")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rec == nil || rec.Status != domain.StatusDown || rec.ResponseMS != nil {
		t.Fatalf("unexpected latest: %+v", rec)
	}

	all, err := store.LatestAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("latest all: %v %+v", err, all)
	}

	// strict cutoff: the record stamped exactly at cutoff survives
	n, err := store.DeleteOlderThan(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 removed, got %d", n)
	}
	hist, err := store.History(ctx, 1, domain.KindProxyRoute, time.Time{})
	if err != nil || len(hist) != 1 || hist[0].Status != domain.StatusDown {
		t.Fatalf("boundary record should survive: %v %+v", err, hist)
	}
}
