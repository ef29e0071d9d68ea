package profile

import "sort"

// Distribution 是单个 facet 的归一化权重分布。
//
// key 的插入顺序被保留：TopK 只按权重降序做稳定排序，
// 权重相同的 facet 值按首次出现顺序胜出，保证结果可复现。
type Distribution struct {
	keys    []string
	weights map[string]float64
}

func NewDistribution() *Distribution {
	return &Distribution{
		keys:    make([]string, 0),
		weights: make(map[string]float64),
	}
}

// Add 为 facet 值累加权重（首次出现时记录顺序）。
func (d *Distribution) Add(key string, v float64) {
	if _, ok := d.weights[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.weights[key] += v
}

// Weight 返回 facet 值的权重；不存在时为 0。
func (d *Distribution) Weight(key string) float64 {
	return d.weights[key]
}

// Has 判断 facet 值是否出现在分布中。
func (d *Distribution) Has(key string) bool {
	_, ok := d.weights[key]
	return ok
}

func (d *Distribution) Len() int { return len(d.keys) }

// Keys 返回全部 facet 值（插入顺序）。
func (d *Distribution) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Sum 返回权重之和（归一化后应为 1 ± ε，空分布为 0）。
func (d *Distribution) Sum() float64 {
	var sum float64
	for _, k := range d.keys {
		sum += d.weights[k]
	}
	return sum
}

// Normalize 以 total 为分母归一化全部权重。
// total <= 0 时清空分布（零收听时长 = 无偏好，绝不除零）。
func (d *Distribution) Normalize(total float64) {
	if total <= 0 {
		d.keys = d.keys[:0]
		d.weights = make(map[string]float64)
		return
	}
	for k := range d.weights {
		d.weights[k] /= total
	}
}

// TopK 返回权重最大的 k 个 facet 值。
// 仅按权重降序稳定排序，同分时保持插入顺序。k <= 0 或超界时返回全部。
func (d *Distribution) TopK(k int) []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	sort.SliceStable(out, func(i, j int) bool {
		return d.weights[out[i]] > d.weights[out[j]]
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
