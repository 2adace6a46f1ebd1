package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rivergate/proxywatch/internal/domain"
	"github.com/rivergate/proxywatch/internal/repo"
)

var _ repo.StatusStore = (*Store)(nil)
var _ repo.ConfigStore = (*Store)(nil)

// Store is the pgx adapter. It owns the health_records table and reads the
// admin app's configuration tables; it never writes those.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() { s.pool.Close() }

// ---- StatusStore ----

func (s *Store) Append(ctx context.Context, rec *domain.HealthRecord) error {
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now().UTC()
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO health_records (entity_id, entity_kind, upstream_key, status, response_ms, checked_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id`,
		rec.EntityID, string(rec.EntityKind), rec.UpstreamKey, string(rec.Status), rec.ResponseMS, rec.CheckedAt)
	return row.Scan(&rec.ID)
}

func (s *Store) LatestStatus(ctx context.Context, entityID int64, kind domain.EntityKind, upstreamKey string) (*domain.HealthRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, status, response_ms, checked_at
		   FROM health_records
		  WHERE entity_id = $1 AND entity_kind = $2 AND upstream_key = $3
		  ORDER BY checked_at DESC, id DESC
		  LIMIT 1`,
		entityID, string(kind), upstreamKey)
	r := domain.HealthRecord{EntityID: entityID, EntityKind: kind, UpstreamKey: upstreamKey}
	err := row.Scan(&r.ID, &r.Status, &r.ResponseMS, &r.CheckedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) LatestAll(ctx context.Context) ([]domain.HealthRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT ON (entity_id, entity_kind, upstream_key)
       id, entity_id, entity_kind, upstream_key, status, response_ms, checked_at
  FROM health_records
 ORDER BY entity_id, entity_kind, upstream_key, checked_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) History(ctx context.Context, entityID int64, kind domain.EntityKind, since time.Time) ([]domain.HealthRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, entity_id, entity_kind, upstream_key, status, response_ms, checked_at
		   FROM health_records
		  WHERE entity_id = $1 AND entity_kind = $2 AND checked_at >= $3
		  ORDER BY checked_at DESC, id DESC`,
		entityID, string(kind), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM health_records WHERE checked_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRecords(rows pgx.Rows) ([]domain.HealthRecord, error) {
	var out []domain.HealthRecord
	for rows.Next() {
		var r domain.HealthRecord
		if err := rows.Scan(&r.ID, &r.EntityID, &r.EntityKind, &r.UpstreamKey, &r.Status, &r.ResponseMS, &r.CheckedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
