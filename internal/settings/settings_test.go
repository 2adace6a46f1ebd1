package settings

import (
	"context"
	"testing"
	"time"

	"github.com/rivergate/proxywatch/internal/repo/memory"
)

func TestInterval_DefaultAndOverride(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store)

	if got := svc.Interval(ctx); got != 30*time.Second {
		t.Fatalf("default interval wrong: %v", got)
	}

	store.SetSetting(KeyIntervalMS, "5000")
	if got := svc.Interval(ctx); got != 5*time.Second {
		t.Fatalf("override not applied: %v", got)
	}
}

func TestInterval_BadValuesFallBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store)

	for _, v := range []string{"", "abc", "-1", "0"} {
		store.SetSetting(KeyIntervalMS, v)
		if got := svc.Interval(ctx); got != DefaultInterval {
			t.Fatalf("value %q: want default, got %v", v, got)
		}
	}
}

func TestRetentionDays(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store)

	if got := svc.RetentionDays(ctx); got != 7 {
		t.Fatalf("default retention wrong: %d", got)
	}
	store.SetSetting(KeyRetentionDays, "30")
	if got := svc.RetentionDays(ctx); got != 30 {
		t.Fatalf("override not applied: %d", got)
	}
	store.SetSetting(KeyRetentionDays, "junk")
	if got := svc.RetentionDays(ctx); got != DefaultRetentionDays {
		t.Fatalf("bad value should fall back: %d", got)
	}
}

func TestGlobalWebhookURL(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store)

	if got := svc.GlobalWebhookURL(ctx); got != "" {
		t.Fatalf("expected empty default, got %q", got)
	}
	store.SetSetting(KeyGlobalWebhook, "https://hooks.example/global")
	if got := svc.GlobalWebhookURL(ctx); got != "https://hooks.example/global" {
		t.Fatalf("got %q", got)
	}
}
