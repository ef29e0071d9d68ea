// Package listenkit 是一个面向音频内容目录的个性化引擎（Listening Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - 纯计算：引擎无内部可变状态，数据在调用前从 RecordStore 取快照，跨用户并发安全
package listenkit

import "github.com/rushteam/listenkit/pipeline"

// 轻量 facade：便于用户直接 import "listenkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
