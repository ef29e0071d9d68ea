package config

import (
	"fmt"
	"time"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/filter"
	"github.com/rushteam/listenkit/model"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/conv"
	"github.com/rushteam/listenkit/rank"
	"github.com/rushteam/listenkit/recall"
	"github.com/rushteam/listenkit/rerank"
)

func init() {
	Register("filter", buildFilterNode)
	Register("rank.affinity", buildAffinityNode)
	Register("rerank.topn", buildTopNNode)
}

// RegisterStoreNodes 注册依赖 RecordStore 的 Node（召回类）。
// 召回要查目录/人群，store 无法从配置表达，需在入口处显式绑定。
func RegisterStoreNodes(store core.RecordStore) {
	Register("recall.facet", func(config map[string]any) (pipeline.Node, error) {
		return buildFacetRecall(store, config), nil
	})
	Register("recall.peer", func(config map[string]any) (pipeline.Node, error) {
		return buildPeerRecall(store, config), nil
	})
	Register("recall.fanout", func(config map[string]any) (pipeline.Node, error) {
		return buildFanoutNode(store, config)
	})
}

func buildFilterNode(config map[string]any) (pipeline.Node, error) {
	filters := make([]filter.Filter, 0)
	if conv.ConfigGet[bool](config, "seen", false) {
		filters = append(filters, &filter.SeenFilter{})
	}
	if expr := conv.ConfigGet[string](config, "expr", ""); expr != "" {
		filters = append(filters, &filter.ExprFilter{Expr: expr})
	}
	for _, expr := range conv.SliceAnyToString(config["exprs"]) {
		filters = append(filters, &filter.ExprFilter{Expr: expr})
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("filter: no filters configured")
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func buildAffinityNode(config map[string]any) (pipeline.Node, error) {
	return &rank.AffinityNode{
		Model: &model.AffinityModel{
			CategoryWeight:  conv.ConfigGetFloat(config, "category_weight", 0),
			CreatorWeight:   conv.ConfigGetFloat(config, "creator_weight", 0),
			PerformerWeight: conv.ConfigGetFloat(config, "performer_weight", 0),
			ExploreBonus:    conv.ConfigGetFloat(config, "explore_bonus", 0),
		},
	}, nil
}

func buildTopNNode(config map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt(config, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("rerank.topn: n must be positive")
	}
	return &rerank.TopNNode{N: n}, nil
}

func buildFacetRecall(store core.RecordStore, config map[string]any) *recall.FacetRecall {
	return &recall.FacetRecall{
		Store:          store,
		CandidateLimit: conv.ConfigGetInt(config, "candidate_limit", 0),
		CreatorFuzzy:   conv.ConfigGetFloat(config, "creator_fuzzy", 0),
	}
}

func buildPeerRecall(store core.RecordStore, config map[string]any) *recall.PeerRecall {
	return &recall.PeerRecall{
		Store:     store,
		PeerLimit: conv.ConfigGetInt(config, "peer_limit", 0),
	}
}

func buildFanoutNode(store core.RecordStore, config map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := config["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("recall.fanout: sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet[string](sourceMap, "type", ""); sourceType {
		case "facet":
			sources = append(sources, buildFacetRecall(store, sourceMap))
		case "peer":
			sources = append(sources, buildPeerRecall(store, sourceMap))
		default:
			return nil, fmt.Errorf("recall.fanout: unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet[bool](config, "dedup", true),
		MaxConcurrent: conv.ConfigGetInt(config, "max_concurrent", 0),
	}
	if sec := conv.ConfigGetInt(config, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}
