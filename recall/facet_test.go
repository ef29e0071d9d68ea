package recall

import (
	"context"
	"testing"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/profile"
	"github.com/rushteam/listenkit/store"
)

func facetRctx(user *core.User, prefs *profile.Preferences) *core.RecommendContext {
	return &core.RecommendContext{
		UserID: user.ID,
		User:   user,
		Params: map[string]any{PrefsParamKey: prefs},
	}
}

func TestFacetRecall(t *testing.T) {
	memStore := store.NewMemoryRecordStore()
	memStore.PutItem(&core.CatalogItem{ID: "s1", Category: "scifi"})
	memStore.PutItem(&core.CatalogItem{ID: "s2", Category: "scifi"})
	memStore.PutItem(&core.CatalogItem{ID: "h1", Category: "history"})
	memStore.PutItem(&core.CatalogItem{ID: "r1", Category: "romance"})
	memStore.PutItem(&core.CatalogItem{ID: "p1", Category: "romance", Performer: "Brick"})

	prefs := profile.NewPreferences()
	prefs.Categories.Add("scifi", 1.0)
	prefs.Performers.Add("Brick", 1.0)

	u := core.NewUser("alice")
	u.MarkCompleted("s2") // 已完成的不进候选

	r := &FacetRecall{Store: memStore}
	out, err := r.Recall(context.Background(), facetRctx(u, prefs))
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	wantIDs := []string{"s1", "p1"} // Store 顺序；OR 语义跨 facet
	if len(out) != len(wantIDs) {
		t.Fatalf("got %d candidates, want %d", len(out), len(wantIDs))
	}
	for i, want := range wantIDs {
		if out[i].ID() != want {
			t.Errorf("out[%d] = %s, want %s", i, out[i].ID(), want)
		}
	}
	if lbl, ok := out[0].Labels["recall_source"]; !ok || lbl.Value != "facet" {
		t.Errorf("recall_source label = %+v, want facet", lbl)
	}
}

func TestFacetRecallEmptyPrefs(t *testing.T) {
	memStore := store.NewMemoryRecordStore()
	memStore.PutItem(&core.CatalogItem{ID: "s1", Category: "scifi"})

	r := &FacetRecall{Store: memStore}
	out, err := r.Recall(context.Background(), facetRctx(core.NewUser("fresh"), profile.NewPreferences()))
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d candidates, want 0 (空偏好不兜底全目录)", len(out))
	}
}

func TestFacetRecallLimitAfterExclusion(t *testing.T) {
	memStore := store.NewMemoryRecordStore()
	memStore.PutItem(&core.CatalogItem{ID: "a", Category: "scifi"})
	memStore.PutItem(&core.CatalogItem{ID: "b", Category: "scifi"})
	memStore.PutItem(&core.CatalogItem{ID: "c", Category: "scifi"})

	prefs := profile.NewPreferences()
	prefs.Categories.Add("scifi", 1.0)

	u := core.NewUser("alice")
	u.MarkCompleted("a")

	// 排除先于截断：limit 2 应拿到 b、c，而不是被 a 占掉一个名额
	r := &FacetRecall{Store: memStore, CandidateLimit: 2}
	out, err := r.Recall(context.Background(), facetRctx(u, prefs))
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 2 || out[0].ID() != "b" || out[1].ID() != "c" {
		ids := make([]string, 0, len(out))
		for _, c := range out {
			ids = append(ids, c.ID())
		}
		t.Errorf("candidates = %v, want [b c]", ids)
	}
}

func TestFacetRecallCreatorFuzzy(t *testing.T) {
	memStore := store.NewMemoryRecordStore()
	memStore.PutItem(&core.CatalogItem{ID: "a", Creators: []string{"J.R.R. Tolkien"}})

	prefs := profile.NewPreferences()
	prefs.Creators.Add("jrr. tolkien", 1.0)

	exact := &FacetRecall{Store: memStore}
	out, err := exact.Recall(context.Background(), facetRctx(core.NewUser("u"), prefs))
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("exact match got %d candidates, want 0", len(out))
	}

	fuzzy := &FacetRecall{Store: memStore, CreatorFuzzy: 0.8}
	out, err = fuzzy.Recall(context.Background(), facetRctx(core.NewUser("u"), prefs))
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("fuzzy match got %d candidates, want 1", len(out))
	}
}
