package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
)

// PeerRecall 是基于口味重叠的协同召回源。
//
// 核心思想："收藏/完成过相同物品的用户，口味相近"
//
// 算法流程：
//  1. 找 peers：收藏与收藏相交、或完成与完成相交的用户（排除自己），
//     按 Store 顺序截断到 PeerLimit
//  2. 候选池 = peers 的收藏 ∪ 完成（按 peer 顺序去重）
//
// 与 facet 排序链路刻意不同：presence-based，不打分不加权，
// 仅由下游截断控制数量。目标用户自己收藏/完成过的物品由
// filter.SeenFilter 在管线中剔除（剔除先于截断）。
type PeerRecall struct {
	Store core.RecordStore

	// PeerLimit 参与的相似用户上限，默认 10
	PeerLimit int
}

func (r *PeerRecall) Name() string        { return "recall.peer" }
func (r *PeerRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *PeerRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *PeerRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Store == nil || rctx == nil || rctx.User == nil {
		return nil, nil
	}

	user := rctx.User
	if len(user.FavoriteItemIDs) == 0 && len(user.CompletedItemIDs) == 0 {
		// 没有重叠信号，无 peer 可言
		return nil, nil
	}

	peerLimit := r.PeerLimit
	if peerLimit <= 0 {
		peerLimit = 10
	}

	peers, err := r.Store.FindPeers(ctx, user, peerLimit)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return nil, nil
	}

	// 候选池：peers 的收藏 ∪ 完成，保持 peer 顺序，按物品去重
	seen := make(map[string]struct{})
	poolIDs := make([]string, 0)
	for _, peer := range peers {
		for _, id := range peer.FavoriteItemIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			poolIDs = append(poolIDs, id)
		}
		for _, id := range peer.CompletedItemIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			poolIDs = append(poolIDs, id)
		}
	}

	out := make([]*core.Candidate, 0, len(poolIDs))
	for _, id := range poolIDs {
		item, err := r.Store.GetCatalogItem(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				// peer 引用的物品已下架，丢弃
				continue
			}
			return nil, err
		}
		c := core.NewCandidate(item)
		c.PutLabel("recall_source", utils.Label{Value: "peer", Source: "recall"})
		c.PutLabel("peer_count", utils.Label{Value: strconv.Itoa(len(peers)), Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
