package watchdog

import (
	"context"
	"fmt"

	"github.com/rivergate/proxywatch/internal/domain"
	"github.com/rivergate/proxywatch/internal/repo"
)

// EnumerateTargets flattens the current configuration into probe targets: one
// per upstream endpoint of every enabled proxy host and stream. Weight and
// balancing method are ignored; every listed endpoint gets probed. Endpoints
// with a missing server or an out-of-range port are skipped without failing
// the rest of the cycle.
func EnumerateTargets(ctx context.Context, store repo.ConfigStore) ([]domain.ProbeTarget, error) {
	hosts, err := store.EnabledProxyHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate proxy hosts: %w", err)
	}
	streams, err := store.EnabledStreams(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate streams: %w", err)
	}

	var out []domain.ProbeTarget
	for _, h := range hosts {
		for _, loc := range h.Locations {
			switch loc.Kind {
			case domain.LocationProxy:
				for _, u := range loc.Upstreams {
					if !validUpstream(u) {
						continue
					}
					out = append(out, domain.ProbeTarget{
						EntityID:    h.ID,
						EntityKind:  domain.KindProxyRoute,
						EntityLabel: h.Domain,
						GroupID:     h.GroupID,
						WebhookURL:  h.WebhookURL,
						UpstreamKey: u.Key(),
						Server:      u.Server,
						Port:        u.Port,
					})
				}
			case domain.LocationStatic, domain.LocationRedirect:
				// served locally, nothing to probe
			}
		}
	}

	for _, s := range streams {
		label := fmt.Sprintf("%s/%d", s.Protocol, s.ListenPort)
		for _, u := range s.Upstreams {
			if !validUpstream(u) {
				continue
			}
			out = append(out, domain.ProbeTarget{
				EntityID:    s.ID,
				EntityKind:  domain.KindStreamPort,
				EntityLabel: label,
				GroupID:     s.GroupID,
				WebhookURL:  s.WebhookURL,
				UpstreamKey: u.Key(),
				Server:      u.Server,
				Port:        u.Port,
			})
		}
	}

	return out, nil
}

func validUpstream(u domain.Upstream) bool {
	return u.Server != "" && u.Port > 0 && u.Port <= 65535
}
