package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/listenkit/core"
)

// Feast 在线特征的默认命名。权重 map 以 JSON 字符串存储，
// 总时长为 double。实体键为 user_id。
const (
	defaultFeastEntityKey        = "user_id"
	defaultFeastCategoryFeature  = "listener_profile:category_weights"
	defaultFeastCreatorFeature   = "listener_profile:creator_weights"
	defaultFeastPerformerFeature = "listener_profile:performer_weights"
	defaultFeastTotalFeature     = "listener_profile:total_seconds"
)

// FeastProvider 从 Feast Feature Store 读取离线预计算的偏好分布。
//
// 适用场景：人群大、时间线长，偏好分布由离线作业物化到在线存储，
// 请求路径只做一次特征读取。读取失败或特征缺失时返回 NOT_FOUND，
// 引擎回退到时间线现算。
//
// 注意：JSON map 不保留插入顺序。为保证 Top-K 同分决胜可复现，
// 此 Provider 按 facet 值字典序重建分布（现算路径则按首次收听顺序）。
type FeastProvider struct {
	Client *feastsdk.GrpcClient

	// Project 是 Feast 项目名称
	Project string

	// EntityKey 实体键名，默认 "user_id"
	EntityKey string

	// CategoryFeature / CreatorFeature / PerformerFeature / TotalFeature
	// 为空时使用默认特征命名
	CategoryFeature  string
	CreatorFeature   string
	PerformerFeature string
	TotalFeature     string
}

// NewFeastProvider 连接 Feast Feature Server（gRPC）。
func NewFeastProvider(host string, port int, project string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast: %w", err)
	}
	return &FeastProvider{Client: client, Project: project}, nil
}

func (p *FeastProvider) Name() string { return "profile.feast" }

// Preferences 实现 Provider 接口。
func (p *FeastProvider) Preferences(ctx context.Context, userID string) (*Preferences, error) {
	if p.Client == nil || userID == "" {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile: feast client not configured")
	}

	features := []string{
		p.featureName(p.CategoryFeature, defaultFeastCategoryFeature),
		p.featureName(p.CreatorFeature, defaultFeastCreatorFeature),
		p.featureName(p.PerformerFeature, defaultFeastPerformerFeature),
		p.featureName(p.TotalFeature, defaultFeastTotalFeature),
	}

	entityKey := p.EntityKey
	if entityKey == "" {
		entityKey = defaultFeastEntityKey
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: []feastsdk.Row{
			{entityKey: feastsdk.StrVal(userID)},
		},
		Project: p.Project,
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeNotFound, "profile: no precomputed preferences for user")
	}
	row := rows[0]

	prefs := NewPreferences()
	prefs.TotalSeconds = doubleFeature(row, features[3])
	fillDistribution(prefs.Categories, stringFeature(row, features[0]))
	fillDistribution(prefs.Creators, stringFeature(row, features[1]))
	fillDistribution(prefs.Performers, stringFeature(row, features[2]))

	if prefs.Empty() && prefs.TotalSeconds == 0 {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeNotFound, "profile: no precomputed preferences for user")
	}
	return prefs, nil
}

func (p *FeastProvider) featureName(configured, def string) string {
	if configured != "" {
		return configured
	}
	return def
}

// fillDistribution 用 JSON 权重 map 重建分布，facet 值按字典序插入。
func fillDistribution(d *Distribution, raw string) {
	if raw == "" {
		return
	}
	var weights map[string]float64
	if err := json.Unmarshal([]byte(raw), &weights); err != nil {
		return
	}
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Add(k, weights[k])
	}
}

func stringFeature(row feastsdk.Row, name string) string {
	if v, ok := row[name]; ok && v != nil {
		return v.GetStringVal()
	}
	return ""
}

func doubleFeature(row feastsdk.Row, name string) float64 {
	if v, ok := row[name]; ok && v != nil {
		return v.GetDoubleVal()
	}
	return 0
}

// 确保 FeastProvider 实现了 Provider 接口
var _ Provider = (*FeastProvider)(nil)

// 确保引用的 proto 类型与 SDK Row 定义一致
var _ map[string]*feasttypes.Value = feastsdk.Row(nil)
