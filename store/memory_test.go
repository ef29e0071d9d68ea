package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/listenkit/core"
)

func TestMemoryStoreUserNotFound(t *testing.T) {
	m := NewMemoryRecordStore()
	_, err := m.GetUser(context.Background(), "ghost")
	if !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	_, err = m.GetCatalogItem(context.Background(), "ghost")
	if !core.IsNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStoreUserSnapshot(t *testing.T) {
	m := NewMemoryRecordStore()
	u := core.NewUser("alice")
	u.RecordActivity("b1", time.Now(), 100)
	m.PutUser(u)

	snap, err := m.GetUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	// 快照独立于后续写入
	u.RecordActivity("b2", time.Now(), 200)
	if len(snap.Timeline) != 1 {
		t.Errorf("snapshot timeline len = %d, want 1", len(snap.Timeline))
	}
}

func TestMemoryStoreFindCatalogItemsOrder(t *testing.T) {
	m := NewMemoryRecordStore()
	m.PutItem(&core.CatalogItem{ID: "c", Category: "scifi"})
	m.PutItem(&core.CatalogItem{ID: "a", Category: "scifi"})
	m.PutItem(&core.CatalogItem{ID: "b", Category: "scifi"})

	out, err := m.FindCatalogItems(context.Background(), core.CatalogQuery{Categories: []string{"scifi"}})
	if err != nil {
		t.Fatalf("FindCatalogItems: %v", err)
	}

	// 入库顺序，不是字典序
	wantIDs := []string{"c", "a", "b"}
	for i, want := range wantIDs {
		if out[i].ID != want {
			t.Errorf("out[%d] = %s, want %s", i, out[i].ID, want)
		}
	}
}

func TestMemoryStoreFindCatalogItemsEmptyQuery(t *testing.T) {
	m := NewMemoryRecordStore()
	m.PutItem(&core.CatalogItem{ID: "a", Category: "scifi"})

	out, err := m.FindCatalogItems(context.Background(), core.CatalogQuery{})
	if err != nil {
		t.Fatalf("FindCatalogItems: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("empty query matched %d items, want 0", len(out))
	}
}

func TestMemoryStoreFindCatalogItemsFuzzy(t *testing.T) {
	m := NewMemoryRecordStore()
	m.PutItem(&core.CatalogItem{ID: "a", Creators: []string{"J.R.R. Tolkien"}})

	q := core.CatalogQuery{Creators: []string{"jrr. tolkien"}}
	out, _ := m.FindCatalogItems(context.Background(), q)
	if len(out) != 0 {
		t.Errorf("exact query matched %d, want 0", len(out))
	}

	q.CreatorFuzzy = 0.8
	out, _ = m.FindCatalogItems(context.Background(), q)
	if len(out) != 1 {
		t.Errorf("fuzzy query matched %d, want 1", len(out))
	}
}

func TestMemoryStoreListUsersPagination(t *testing.T) {
	m := NewMemoryRecordStore()
	ids := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, id := range ids {
		m.PutUser(core.NewUser(id))
	}

	got := make([]string, 0, len(ids))
	cursor := ""
	for {
		users, next, err := m.ListUsers(context.Background(), cursor, 2)
		if err != nil {
			t.Fatalf("ListUsers: %v", err)
		}
		for _, u := range users {
			got = append(got, u.ID)
		}
		if next == "" {
			break
		}
		cursor = next
	}

	if len(got) != len(ids) {
		t.Fatalf("paginated %d users, want %d", len(got), len(ids))
	}
	for i, want := range ids {
		if got[i] != want {
			t.Errorf("got[%d] = %s, want %s (注册顺序)", i, got[i], want)
		}
	}
}

func TestMemoryStoreListUsersBadCursor(t *testing.T) {
	m := NewMemoryRecordStore()
	if _, _, err := m.ListUsers(context.Background(), "not-a-number", 10); err == nil {
		t.Error("expected error for bad cursor")
	}
}

func TestMemoryStoreFindPeers(t *testing.T) {
	m := NewMemoryRecordStore()

	alice := core.NewUser("alice")
	alice.AddFavorite("x")
	m.PutUser(alice)

	bob := core.NewUser("bob")
	bob.AddFavorite("x")
	m.PutUser(bob)

	carol := core.NewUser("carol")
	carol.AddFavorite("y")
	m.PutUser(carol)

	// 收藏跨完成不构成重叠
	dave := core.NewUser("dave")
	dave.MarkCompleted("x")
	m.PutUser(dave)

	peers, err := m.FindPeers(context.Background(), alice, 10)
	if err != nil {
		t.Fatalf("FindPeers: %v", err)
	}
	if len(peers) != 1 || peers[0].ID != "bob" {
		names := make([]string, 0, len(peers))
		for _, p := range peers {
			names = append(names, p.ID)
		}
		t.Errorf("peers = %v, want [bob]", names)
	}
}
