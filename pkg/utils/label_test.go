package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			"both present",
			Label{Value: "facet", Source: "recall"},
			Label{Value: "peer", Source: "recall"},
			Label{Value: "facet|peer", Source: "recall,recall"},
		},
		{
			"existing empty",
			Label{},
			Label{Value: "peer", Source: "recall"},
			Label{Value: "peer", Source: "recall"},
		},
		{
			"incoming empty",
			Label{Value: "facet", Source: "recall"},
			Label{},
			Label{Value: "facet", Source: "recall"},
		},
		{
			"incoming without source",
			Label{Value: "a", Source: "recall"},
			Label{Value: "b"},
			Label{Value: "a|b", Source: "recall"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
