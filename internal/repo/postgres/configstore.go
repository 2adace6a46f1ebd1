package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rivergate/proxywatch/internal/domain"
)

// Config reads. The admin app stores locations and upstream lists as JSONB;
// they are decoded into the tagged domain variants here so nothing
// loosely-typed crosses into the probing core.

func (s *Store) EnabledProxyHosts(ctx context.Context) ([]domain.ProxyHost, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, domain, enabled, group_id, COALESCE(webhook_url, ''), locations
		   FROM proxy_hosts
		  WHERE enabled
		  ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list proxy hosts: %w", err)
	}
	defer rows.Close()

	var out []domain.ProxyHost
	for rows.Next() {
		var (
			h   domain.ProxyHost
			raw []byte
		)
		if err := rows.Scan(&h.ID, &h.Domain, &h.Enabled, &h.GroupID, &h.WebhookURL, &raw); err != nil {
			return nil, fmt.Errorf("scan proxy host: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &h.Locations); err != nil {
				return nil, fmt.Errorf("decode locations for host %d: %w", h.ID, err)
			}
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) EnabledStreams(ctx context.Context) ([]domain.Stream, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, listen_port, protocol, enabled, group_id, COALESCE(webhook_url, ''), upstreams
		   FROM streams
		  WHERE enabled
		  ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	defer rows.Close()

	var out []domain.Stream
	for rows.Next() {
		var (
			st  domain.Stream
			raw []byte
		)
		if err := rows.Scan(&st.ID, &st.ListenPort, &st.Protocol, &st.Enabled, &st.GroupID, &st.WebhookURL, &raw); err != nil {
			return nil, fmt.Errorf("scan stream: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &st.Upstreams); err != nil {
				return nil, fmt.Errorf("decode upstreams for stream %d: %w", st.ID, err)
			}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) Group(ctx context.Context, id int64) (*domain.Group, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(webhook_url, '') FROM groups WHERE id = $1`, id)
	var g domain.Group
	if err := row.Scan(&g.ID, &g.Name, &g.WebhookURL); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return v, nil
}
