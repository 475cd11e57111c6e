package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"progress-dashboard/internal/domain"
)

func TestProgressStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewProgressStore(client, time.Hour)
	ctx := context.Background()

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	in := domain.TutorialProgress{
		UserID:         "u1",
		CompletedSteps: []string{"welcome", "assignments"},
		CurrentStep:    2,
		UpdatedAt:      updated,
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("dashboard:tutorial:u1") {
		t.Fatalf("expected redis key to be set")
	}
	if mr.TTL("dashboard:tutorial:u1") != time.Hour {
		t.Fatalf("expected ttl to be applied")
	}

	out, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.CurrentStep != 2 || out.Dismissed || len(out.CompletedSteps) != 2 || !out.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected progress %+v", out)
	}
}
