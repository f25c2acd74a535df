package redis

import (
	"context"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := key("views", "abc", "total"); got != "wacatalog:views:abc:total" {
		t.Fatalf("key: got %q", got)
	}
}

func TestNewClient_RequiresAddr(t *testing.T) {
	if _, err := NewClient(context.Background(), "  ", nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestDayRangeEndsAtUntil(t *testing.T) {
	until := time.Date(2026, 3, 2, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	got := dayRange(until, 3)
	want := []string{"2026-03-01", "2026-03-02", "2026-03-03"}
	if len(got) != len(want) {
		t.Fatalf("len: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Day != want[i] || got[i].Views != 0 {
			t.Fatalf("day %d: got %+v want %s", i, got[i], want[i])
		}
	}
}
