package filter

import (
	"context"
	"testing"

	"github.com/rushteam/listenkit/core"
)

func TestSeenFilter(t *testing.T) {
	u := core.NewUser("alice")
	u.AddFavorite("fav")
	u.MarkCompleted("done")
	rctx := &core.RecommendContext{UserID: "alice", User: u}

	f := &SeenFilter{}
	tests := []struct {
		name   string
		itemID string
		want   bool
	}{
		{"favorite filtered", "fav", true},
		{"completed filtered", "done", true},
		{"unseen passes", "new", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate(&core.CatalogItem{ID: tt.itemID})
			got, err := f.ShouldFilter(context.Background(), rctx, c)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%s) = %v, want %v", tt.itemID, got, tt.want)
			}
		})
	}
}

func TestExprFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "alice"}
	longItem := core.NewCandidate(&core.CatalogItem{ID: "a", Category: "scifi", DurationSeconds: 200000})
	shortItem := core.NewCandidate(&core.CatalogItem{ID: "b", Category: "romance", DurationSeconds: 3600})

	tests := []struct {
		name string
		expr string
		c    *core.Candidate
		want bool
	}{
		{"duration rule hits", `item.duration > 180000.0`, longItem, true},
		{"duration rule passes", `item.duration > 180000.0`, shortItem, false},
		{"category rule", `item.category == "romance"`, shortItem, true},
		{"combined rule", `item.category == "scifi" && item.duration > 100000.0`, longItem, true},
		{"empty expr never filters", ``, longItem, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ExprFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(context.Background(), rctx, tt.c)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNode(t *testing.T) {
	u := core.NewUser("alice")
	u.AddFavorite("fav")
	rctx := &core.RecommendContext{UserID: "alice", User: u}

	node := &FilterNode{Filters: []Filter{&SeenFilter{}}}
	in := []*core.Candidate{
		core.NewCandidate(&core.CatalogItem{ID: "fav"}),
		core.NewCandidate(&core.CatalogItem{ID: "keep"}),
		nil,
	}

	out, err := node.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID() != "keep" {
		t.Fatalf("got %d candidates, want just keep", len(out))
	}
}

func TestFilterNodeLabelsFilteredReason(t *testing.T) {
	u := core.NewUser("alice")
	u.AddFavorite("fav")
	rctx := &core.RecommendContext{UserID: "alice", User: u}

	dropped := core.NewCandidate(&core.CatalogItem{ID: "fav"})
	node := &FilterNode{Filters: []Filter{&SeenFilter{}}}
	if _, err := node.Process(context.Background(), rctx, []*core.Candidate{dropped}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	lbl, ok := dropped.Labels["filtered"]
	if !ok || lbl.Value != "true" || lbl.Source != "filter.seen" {
		t.Errorf("filtered label = %+v, want true/filter.seen", lbl)
	}
}
