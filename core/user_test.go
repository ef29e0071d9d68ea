package core

import (
	"testing"
	"time"
)

func TestRecordActivityAppendOnly(t *testing.T) {
	u := NewUser("alice")
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	u.RecordActivity("b1", at, 100)
	u.RecordActivity("b1", at.Add(time.Hour), 300)
	u.RecordActivity("b1", at.Add(2*time.Hour), -50) // 负进度钳到 0

	if len(u.Timeline) != 3 {
		t.Fatalf("timeline len = %d, want 3 (append-only)", len(u.Timeline))
	}
	if u.Timeline[2].Progress != 0 {
		t.Errorf("clamped progress = %f, want 0", u.Timeline[2].Progress)
	}
}

func TestLatestEntries(t *testing.T) {
	u := NewUser("alice")
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	u.RecordActivity("b1", at, 100)
	u.RecordActivity("b2", at.Add(time.Hour), 200)
	u.RecordActivity("b1", at.Add(2*time.Hour), 500)

	latest := u.LatestEntries()
	if len(latest) != 2 {
		t.Fatalf("latest len = %d, want 2", len(latest))
	}
	// 首次出现顺序，进度取最新
	if latest[0].ItemID != "b1" || latest[0].Progress != 500 {
		t.Errorf("latest[0] = %+v, want b1/500", latest[0])
	}
	if latest[1].ItemID != "b2" || latest[1].Progress != 200 {
		t.Errorf("latest[1] = %+v, want b2/200", latest[1])
	}
}

func TestFavoritesAndCompletedDedup(t *testing.T) {
	u := NewUser("alice")
	u.AddFavorite("b1")
	u.AddFavorite("b1")
	u.MarkCompleted("b2")
	u.MarkCompleted("b2")

	if len(u.FavoriteItemIDs) != 1 || len(u.CompletedItemIDs) != 1 {
		t.Errorf("favorites/completed = %d/%d, want 1/1",
			len(u.FavoriteItemIDs), len(u.CompletedItemIDs))
	}
	if !u.IsCompleted("b2") || u.IsCompleted("b1") {
		t.Error("IsCompleted semantics broken")
	}
}

func TestSeenSet(t *testing.T) {
	u := NewUser("alice")
	u.AddFavorite("f")
	u.MarkCompleted("c")
	u.AddFavorite("both")
	u.MarkCompleted("both")

	seen := u.SeenSet()
	if len(seen) != 3 {
		t.Errorf("seen set size = %d, want 3", len(seen))
	}
	for _, id := range []string{"f", "c", "both"} {
		if _, ok := seen[id]; !ok {
			t.Errorf("seen set missing %s", id)
		}
	}
}

func TestTotalListeningSeconds(t *testing.T) {
	u := NewUser("alice")
	at := time.Now()
	u.RecordActivity("b1", at, 100)
	u.RecordActivity("b1", at, 200) // 重听累加，不取最新

	if got := u.TotalListeningSeconds(); got != 300 {
		t.Errorf("TotalListeningSeconds = %f, want 300", got)
	}
}
