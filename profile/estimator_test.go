package profile

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/listenkit/core"
)

func entry(itemID string, progress float64, item *core.CatalogItem) ResolvedEntry {
	return ResolvedEntry{
		Entry: core.TimelineEntry{
			ItemID:         itemID,
			LastActivityAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			Progress:       progress,
		},
		Item: item,
	}
}

func TestBuildPreferencesNormalization(t *testing.T) {
	scifi := &core.CatalogItem{ID: "a", Category: "scifi", Creators: []string{"Asimov"}, Performer: "Brick"}
	history := &core.CatalogItem{ID: "b", Category: "history", Creators: []string{"Harari"}, Performer: "Perkins"}

	p := BuildPreferences([]ResolvedEntry{
		entry("a", 3000, scifi),
		entry("b", 1000, history),
	})

	if p.TotalSeconds != 4000 {
		t.Fatalf("TotalSeconds = %f, want 4000", p.TotalSeconds)
	}
	if w := p.Categories.Weight("scifi"); math.Abs(w-0.75) > 1e-9 {
		t.Errorf("scifi weight = %f, want 0.75", w)
	}
	if w := p.Categories.Weight("history"); math.Abs(w-0.25) > 1e-9 {
		t.Errorf("history weight = %f, want 0.25", w)
	}

	// 每个非空分布的权重和为 1 ± ε
	for name, d := range map[string]*Distribution{
		"categories": p.Categories,
		"creators":   p.Creators,
		"performers": p.Performers,
	} {
		if d.Len() == 0 {
			continue
		}
		if sum := d.Sum(); math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s sum = %f, want 1", name, sum)
		}
	}
}

func TestBuildPreferencesCreatorFanOut(t *testing.T) {
	// 多创作者物品：每个创作者各计入全额 Progress，分母不变
	dual := &core.CatalogItem{ID: "a", Category: "fantasy", Creators: []string{"Pratchett", "Gaiman"}, Performer: "Briggs"}

	p := BuildPreferences([]ResolvedEntry{entry("a", 2000, dual)})

	if w := p.Creators.Weight("Pratchett"); math.Abs(w-1.0) > 1e-9 {
		t.Errorf("Pratchett weight = %f, want 1.0", w)
	}
	if w := p.Creators.Weight("Gaiman"); math.Abs(w-1.0) > 1e-9 {
		t.Errorf("Gaiman weight = %f, want 1.0", w)
	}
	// fan-out 后创作者分布的和可以超过 1，这是有意为之
	if sum := p.Creators.Sum(); math.Abs(sum-2.0) > 1e-9 {
		t.Errorf("creators sum = %f, want 2.0", sum)
	}
}

func TestBuildPreferencesEmptyTimeline(t *testing.T) {
	p := BuildPreferences(nil)
	if !p.Empty() {
		t.Error("expected empty preferences for empty timeline")
	}
	if p.TotalSeconds != 0 {
		t.Errorf("TotalSeconds = %f, want 0", p.TotalSeconds)
	}
}

func TestBuildPreferencesZeroProgress(t *testing.T) {
	// 全零时长 → 归一化清空分布，"无偏好"而不是 NaN
	item := &core.CatalogItem{ID: "a", Category: "scifi", Creators: []string{"Asimov"}, Performer: "Brick"}
	p := BuildPreferences([]ResolvedEntry{entry("a", 0, item)})
	if !p.Empty() {
		t.Error("expected empty preferences when total progress is zero")
	}
}

func TestBuildPreferencesSkipsEmptyFacets(t *testing.T) {
	bare := &core.CatalogItem{ID: "a", Creators: []string{"Someone"}}
	p := BuildPreferences([]ResolvedEntry{entry("a", 100, bare)})
	if p.Categories.Len() != 0 {
		t.Error("empty category should not enter the distribution")
	}
	if p.Performers.Len() != 0 {
		t.Error("empty performer should not enter the distribution")
	}
	if p.Creators.Len() != 1 {
		t.Errorf("creators len = %d, want 1", p.Creators.Len())
	}
}

func TestDistributionTopKStable(t *testing.T) {
	d := NewDistribution()
	d.Add("first", 1)
	d.Add("second", 1)
	d.Add("third", 2)

	got := d.TopK(2)
	want := []string{"third", "first"}
	if len(got) != len(want) {
		t.Fatalf("TopK = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TopK[%d] = %s, want %s (同分按插入顺序)", i, got[i], want[i])
		}
	}
}

func TestDistributionTopKBounds(t *testing.T) {
	d := NewDistribution()
	d.Add("a", 1)
	d.Add("b", 2)

	if got := d.TopK(0); len(got) != 2 {
		t.Errorf("TopK(0) len = %d, want 2 (返回全部)", len(got))
	}
	if got := d.TopK(10); len(got) != 2 {
		t.Errorf("TopK(10) len = %d, want 2", len(got))
	}
}
