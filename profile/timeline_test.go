package profile

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/store"
)

func TestResolveTimeline(t *testing.T) {
	memStore := store.NewMemoryRecordStore()
	memStore.PutItem(&core.CatalogItem{ID: "a", Title: "A", Category: "scifi"})
	memStore.PutItem(&core.CatalogItem{ID: "b", Title: "B", Category: "history"})

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	u := core.NewUser("u1")
	u.RecordActivity("a", now, 100)
	u.RecordActivity("gone", now, 50) // 目录中不存在
	u.RecordActivity("b", now, 200)
	u.RecordActivity("a", now.Add(time.Hour), 300) // 同一物品第二条会话
	u.RecordActivity("gone", now.Add(time.Hour), 60)

	resolved, dropped, err := ResolveTimeline(context.Background(), memStore, u)
	if err != nil {
		t.Fatalf("ResolveTimeline: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(resolved) != 3 {
		t.Fatalf("resolved len = %d, want 3", len(resolved))
	}

	// 插入顺序保持
	wantIDs := []string{"a", "b", "a"}
	for i, re := range resolved {
		if re.Item.ID != wantIDs[i] {
			t.Errorf("resolved[%d].Item.ID = %s, want %s", i, re.Item.ID, wantIDs[i])
		}
	}
	if resolved[2].Entry.Progress != 300 {
		t.Errorf("second session progress = %f, want 300", resolved[2].Entry.Progress)
	}
}

func TestResolveTimelineEmpty(t *testing.T) {
	memStore := store.NewMemoryRecordStore()

	resolved, dropped, err := ResolveTimeline(context.Background(), memStore, core.NewUser("u1"))
	if err != nil {
		t.Fatalf("ResolveTimeline: %v", err)
	}
	if len(resolved) != 0 || dropped != 0 {
		t.Errorf("got %d resolved / %d dropped, want 0 / 0", len(resolved), dropped)
	}

	if _, _, err := ResolveTimeline(context.Background(), memStore, nil); err != nil {
		t.Errorf("nil user should not error, got %v", err)
	}
}
