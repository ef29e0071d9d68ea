package analytics

import "testing"

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string // 下一里程碑的 Name；"" 表示全部达成
	}{
		{"fresh user", Stats{}, "First item completed"},
		{"one completed", Stats{CompletedCount: 1}, "5 items completed"},
		{"five completed", Stats{CompletedCount: 5}, "10 items completed"},
		{
			"counts done, hours pending",
			Stats{CompletedCount: 10},
			"24 hours listened",
		},
		{
			"hours done, categories pending",
			Stats{CompletedCount: 10, TotalSeconds: 100 * 3600},
			"5 distinct categories explored",
		},
		{
			"all achieved",
			Stats{CompletedCount: 10, TotalSeconds: 100 * 3600, DistinctCategories: 5, DistinctCreators: 10},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := NextMilestone(tt.stats)
			if tt.want == "" {
				if next != nil {
					t.Errorf("NextMilestone = %s, want nil", next.Name())
				}
				return
			}
			if next == nil {
				t.Fatalf("NextMilestone = nil, want %s", tt.want)
			}
			if next.Name() != tt.want {
				t.Errorf("NextMilestone = %s, want %s", next.Name(), tt.want)
			}
		})
	}
}

func TestMilestoneProgress(t *testing.T) {
	tests := []struct {
		name string
		m    MilestoneKind
		s    Stats
		want float64
	}{
		{"first completed zero", FirstCompleted{}, Stats{}, 0},
		{"first completed done", FirstCompleted{}, Stats{CompletedCount: 1}, 100},
		{"count halfway", CountCompleted{N: 10}, Stats{CompletedCount: 5}, 50},
		// 进度不截断：超过目标也如实反映
		{"count overshoot", CountCompleted{N: 5}, Stats{CompletedCount: 7}, 140},
		{"hours quarter", HoursListened{Hours: 24}, Stats{TotalSeconds: 6 * 3600}, 25},
		{"categories", DistinctCategories{N: 5}, Stats{DistinctCategories: 2}, 40},
		{"creators", DistinctCreators{N: 10}, Stats{DistinctCreators: 3}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Progress(tt.s); got != tt.want {
				t.Errorf("Progress = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCatalogOrder(t *testing.T) {
	names := make([]string, 0)
	for _, m := range Catalog() {
		names = append(names, m.Name())
	}
	want := []string{
		"First item completed",
		"5 items completed",
		"10 items completed",
		"24 hours listened",
		"100 hours listened",
		"5 distinct categories explored",
		"10 distinct creators explored",
	}
	if len(names) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("catalog[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
