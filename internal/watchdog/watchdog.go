package watchdog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rivergate/proxywatch/internal/domain"
	"github.com/rivergate/proxywatch/internal/notify"
	"github.com/rivergate/proxywatch/internal/probe"
	"github.com/rivergate/proxywatch/internal/repo"
	"github.com/rivergate/proxywatch/internal/settings"
)

const defaultBootDelay = 5 * time.Second

type Watchdog struct {
	Logger    *zap.Logger
	Config    repo.ConfigStore
	Status    repo.StatusStore
	Settings  *settings.Service
	Checker   probe.Checker
	Sender    notify.Sender
	BootDelay time.Duration
}

func New(
	logger *zap.Logger,
	cfg repo.ConfigStore,
	status repo.StatusStore,
	svc *settings.Service,
	checker probe.Checker,
	sender notify.Sender,
	bootDelay time.Duration,
) *Watchdog {
	if bootDelay < 0 {
		bootDelay = defaultBootDelay
	}
	return &Watchdog{
		Logger:    logger,
		Config:    cfg,
		Status:    status,
		Settings:  svc,
		Checker:   checker,
		Sender:    sender,
		BootDelay: bootDelay,
	}
}

// Run drives cycles until ctx is cancelled. The first cycle fires after the
// boot delay so the hosting process can finish starting. The interval is read
// from settings once, here; changing watchdog_interval_ms takes effect on the
// next process start.
//
// Cycles execute inline in this loop, so at most one is in flight; ticks that
// land while a slow cycle runs coalesce instead of stacking.
func (w *Watchdog) Run(ctx context.Context) {
	interval := w.Settings.Interval(ctx)
	w.Logger.Info("watchdog_starting",
		zap.Duration("interval", interval),
		zap.Duration("boot_delay", w.BootDelay),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.BootDelay):
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	w.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("watchdog_stopped")
			return
		case <-t.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle probes every target, then prunes. A panic anywhere inside is
// recovered so the next tick still fires.
func (w *Watchdog) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("watchdog_cycle_panic", zap.Any("panic", r))
		}
	}()

	targets, err := EnumerateTargets(ctx, w.Config)
	if err != nil {
		// pruning below is independent of the probe pass
		w.Logger.Warn("watchdog_enumerate_error", zap.Error(err))
	} else {
		for _, tgt := range targets {
			w.processTarget(ctx, tgt)
		}
	}

	w.prune(ctx)
}

// processTarget runs one probe and records it. The prior status is read
// before the new record goes in; that pair decides whether this is a
// transition worth notifying about.
func (w *Watchdog) processTarget(ctx context.Context, t domain.ProbeTarget) {
	prev, err := w.Status.LatestStatus(ctx, t.EntityID, t.EntityKind, t.UpstreamKey)
	if err != nil {
		w.Logger.Warn("watchdog_latest_error",
			zap.Int64("entity_id", t.EntityID),
			zap.String("upstream", t.UpstreamKey),
			zap.Error(err),
		)
		return
	}

	res := w.Checker.Check(ctx, t.Server, t.Port)

	status := domain.StatusDown
	var responseMS *float64
	if res.Up {
		status = domain.StatusUp
		v := res.LatencyMS
		responseMS = &v
	}

	rec := &domain.HealthRecord{
		EntityID:    t.EntityID,
		EntityKind:  t.EntityKind,
		UpstreamKey: t.UpstreamKey,
		Status:      status,
		ResponseMS:  responseMS,
		CheckedAt:   time.Now().UTC(),
	}
	// every probe result is recorded, transition or not
	if err := w.Status.Append(ctx, rec); err != nil {
		w.Logger.Warn("watchdog_append_error",
			zap.Int64("entity_id", t.EntityID),
			zap.String("upstream", t.UpstreamKey),
			zap.Error(err),
		)
		return
	}

	w.Logger.Debug("watchdog_probed",
		zap.Int64("entity_id", t.EntityID),
		zap.String("entity_kind", string(t.EntityKind)),
		zap.String("upstream", t.UpstreamKey),
		zap.String("status", string(status)),
		zap.Float64("latency_ms", res.LatencyMS),
	)

	if prev == nil {
		// first-ever observation of this triple, nothing to compare against
		return
	}
	if prev.Status == status {
		return
	}

	w.notifyTransition(ctx, t, rec, res)
}

// notifyTransition resolves the webhook chain and fires one best-effort
// delivery. Flapping upstreams notify on every flip; there is no debounce.
func (w *Watchdog) notifyTransition(ctx context.Context, t domain.ProbeTarget, rec *domain.HealthRecord, res probe.Result) {
	url, groupName, err := w.resolveWebhook(ctx, t)
	if err != nil {
		w.Logger.Warn("watchdog_resolve_error",
			zap.Int64("entity_id", t.EntityID),
			zap.String("upstream", t.UpstreamKey),
			zap.Error(err),
		)
		return
	}

	event := notify.EventUpstreamUp
	message := "upstream recovered"
	if rec.Status == domain.StatusDown {
		event = notify.EventUpstreamDown
		message = res.Message
		if message == "" {
			message = "connection failed"
		}
	}

	if url == "" {
		w.Logger.Info("watchdog_no_webhook",
			zap.Int64("entity_id", t.EntityID),
			zap.String("upstream", t.UpstreamKey),
			zap.String("event", string(event)),
		)
		return
	}

	p := notify.Payload{
		Event:      event,
		Host:       t.EntityLabel,
		Upstream:   t.UpstreamKey,
		Group:      groupName,
		Timestamp:  rec.CheckedAt.Format(time.RFC3339),
		ResponseMS: rec.ResponseMS,
		Message:    message,
	}
	if err := w.Sender.Send(ctx, url, p); err != nil {
		w.Logger.Warn("watchdog_webhook_error",
			zap.String("url", url),
			zap.String("upstream", t.UpstreamKey),
			zap.Error(err),
		)
		return
	}
	w.Logger.Info("watchdog_notified",
		zap.String("event", string(event)),
		zap.String("host", t.EntityLabel),
		zap.String("upstream", t.UpstreamKey),
	)
}

// resolveWebhook walks the fallback chain: entity URL, then the owning
// group's URL, then the global default. It reads configuration fresh on
// every transition, so a URL changed mid-cycle applies to transitions
// detected after the change. The group name comes back too, for the payload,
// whichever URL wins.
func (w *Watchdog) resolveWebhook(ctx context.Context, t domain.ProbeTarget) (string, *string, error) {
	var groupName *string
	var groupURL string
	if t.GroupID != nil {
		g, err := w.Config.Group(ctx, *t.GroupID)
		if err != nil {
			return "", nil, err
		}
		if g != nil {
			groupName = &g.Name
			groupURL = g.WebhookURL
		}
	}

	if t.WebhookURL != "" {
		return t.WebhookURL, groupName, nil
	}
	if groupURL != "" {
		return groupURL, groupName, nil
	}
	return w.Settings.GlobalWebhookURL(ctx), groupName, nil
}

// prune drops history older than the retention window. It runs even when the
// probe pass failed, and its own failure only logs.
func (w *Watchdog) prune(ctx context.Context) {
	days := w.Settings.RetentionDays(ctx)
	cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	n, err := w.Status.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.Logger.Warn("watchdog_prune_error", zap.Error(err))
		return
	}
	if n > 0 {
		w.Logger.Info("watchdog_pruned",
			zap.Int64("removed", n),
			zap.Time("cutoff", cutoff),
		)
	}
}
