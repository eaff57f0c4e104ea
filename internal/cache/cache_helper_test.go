package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedClassroom struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCacheHelperRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, ClassroomCacheConfig.Prefix)
	ctx := context.Background()

	value := cachedClassroom{ID: 3, Name: "Physics XII"}
	if err := helper.Set(ctx, "id:3", value, ClassroomCacheConfig.TTL); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedClassroom
	if err := helper.Get(ctx, "id:3", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != value {
		t.Errorf("got %+v, want %+v", got, value)
	}

	exists, err := helper.Exists(ctx, "id:3")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}
}

func TestCacheHelperMiss(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, AssignmentCacheConfig.Prefix)

	var got cachedClassroom
	if err := helper.Get(context.Background(), "id:404", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperExpiry(t *testing.T) {
	client, mr := newTestClient(t)
	helper := NewCacheHelper(client, FastCacheConfig.Prefix)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedClassroom{ID: 1}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var got cachedClassroom
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestCacheHelperDelete(t *testing.T) {
	client, _ := newTestClient(t)
	helper := NewCacheHelper(client, ClassroomCacheConfig.Prefix)
	ctx := context.Background()

	for _, key := range []string{"id:1", "id:2", "id:3"} {
		if err := helper.Set(ctx, key, cachedClassroom{}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for key, want := range map[string]bool{"id:1": false, "id:2": false, "id:3": true} {
		exists, err := helper.Exists(ctx, key)
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists != want {
			t.Errorf("Exists(%s) = %v, want %v", key, exists, want)
		}
	}
}

func TestInvalidatePattern(t *testing.T) {
	client, _ := newTestClient(t)
	classrooms := NewCacheHelper(client, ClassroomCacheConfig.Prefix)
	assignments := NewCacheHelper(client, AssignmentCacheConfig.Prefix)
	ctx := context.Background()

	for _, key := range []string{"id:1", "id:2", "member:1:42"} {
		if err := classrooms.Set(ctx, key, cachedClassroom{}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := assignments.Set(ctx, "id:7", cachedClassroom{}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := classrooms.InvalidatePattern(ctx, "id:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	// Only classroom id keys are gone
	for key, want := range map[string]bool{"id:1": false, "id:2": false, "member:1:42": true} {
		exists, _ := classrooms.Exists(ctx, key)
		if exists != want {
			t.Errorf("classroom key %s exists = %v, want %v", key, exists, want)
		}
	}
	if exists, _ := assignments.Exists(ctx, "id:7"); !exists {
		t.Error("pattern invalidation crossed prefixes")
	}
}

func TestNilClientDegradation(t *testing.T) {
	helper := NewCacheHelper(nil, "")
	ctx := context.Background()

	// Writes and deletes silently no-op; reads report unavailability
	if err := helper.Set(ctx, "k", cachedClassroom{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete with nil client should no-op, got %v", err)
	}
	var got cachedClassroom
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheManager(t *testing.T) {
	t.Run("healthy with a live client", func(t *testing.T) {
		client, _ := newTestClient(t)
		manager := NewCacheManager(client)
		if err := manager.HealthCheck(context.Background()); err != nil {
			t.Errorf("HealthCheck failed: %v", err)
		}
		if manager.Classroom.prefix != ClassroomCacheConfig.Prefix {
			t.Errorf("classroom helper has prefix %q", manager.Classroom.prefix)
		}
	})

	t.Run("degraded without a client", func(t *testing.T) {
		manager := NewCacheManager(nil)
		if err := manager.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
			t.Errorf("expected ErrCacheNotAvailable, got %v", err)
		}
	})
}
