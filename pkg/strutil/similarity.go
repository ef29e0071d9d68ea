// Package strutil 提供 facet 标签的字符串相似度原语。
// 用于模糊对齐创作者/演播者等 facet 值（如 "J.R.R. Tolkien" vs "JRR Tolkien"）。
package strutil

import "strings"

// EditDistance 计算两个字符串的编辑距离（Levenshtein，忽略大小写）。
// 单行滚动 DP，空间 O(min(len))。
func EditDistance(s1, s2 string) int {
	a := []rune(strings.ToLower(s1))
	b := []rune(strings.ToLower(s2))
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	costs := make([]int, len(b)+1)
	for j := range costs {
		costs[j] = j
	}
	for i := 1; i <= len(a); i++ {
		last := i - 1 // costs[0] 的旧值
		costs[0] = i
		for j := 1; j <= len(b); j++ {
			cur := costs[j]
			if a[i-1] == b[j-1] {
				costs[j] = last
			} else {
				costs[j] = min3(last, costs[j-1], costs[j]) + 1
			}
			last = cur
		}
	}
	return costs[len(b)]
}

// Similarity 返回归一化相似度 ∈ [0,1]：
// (较长串长度 - 编辑距离) / 较长串长度。两个空串视为完全相同。
func Similarity(s1, s2 string) float64 {
	longer := len([]rune(s1))
	if n := len([]rune(s2)); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-EditDistance(s1, s2)) / float64(longer)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
