package rerank

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// TopNNode 是 Top-N 截断节点，用于在排序/过滤后截取前 N 个候选。
// N <= 0 或候选不足 N 时原样返回。
//
// 两条链路都以它收尾：facet 排序链截到 10，协同链截到 5。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(candidates) <= n.N {
		return candidates, nil
	}
	return candidates[:n.N], nil
}
