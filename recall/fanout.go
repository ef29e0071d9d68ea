package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流；单个源失败/超时返回空结果，不中断其他源。
type Fanout struct {
	Sources       []Source
	Dedup         bool          // 按物品 ID 去重，保留首个出现的（labels 合并）
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		results = make([][]*core.Candidate, len(n.Sources))
		eg, _   = errgroup.WithContext(ctx)
	)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		idx, s := i, src
		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			candidates, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			for _, c := range candidates {
				c.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}

			mu.Lock()
			results[idx] = candidates
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按 Sources 顺序拼接，保证合并结果可复现
	all := make([]*core.Candidate, 0)
	for _, part := range results {
		all = append(all, part...)
	}
	return n.merge(all), nil
}

// merge 按 ID 去重，保留第一个出现的；重复项的 labels 合并进保留项。
func (n *Fanout) merge(all []*core.Candidate) []*core.Candidate {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Candidate, len(all))
	out := make([]*core.Candidate, 0, len(all))
	for _, c := range all {
		if c == nil || c.Item == nil {
			continue
		}
		if old, ok := seen[c.ID()]; ok {
			for k, v := range c.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[c.ID()] = c
		out = append(out, c)
	}
	return out
}
