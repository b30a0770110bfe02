package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"quizzler/internal/domain"
)

func TestNotifierRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	notifier := NewNotifier(ctx, client, nil)
	defer notifier.Close()

	updates, cancel := notifier.Subscribe(ctx)
	defer cancel()

	// Give the pub/sub bridge a moment to register.
	time.Sleep(50 * time.Millisecond)

	notifier.Publish(ctx, domain.Scoreboard{
		Rows: []domain.ScoreboardRow{{TeamName: "Lions", TotalPoints: 12}},
	})

	select {
	case snapshot := <-updates:
		if len(snapshot.Rows) != 1 || snapshot.Rows[0].TotalPoints != 12 {
			t.Fatalf("unexpected snapshot %+v", snapshot.Rows)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected snapshot via redis pub/sub")
	}
}
