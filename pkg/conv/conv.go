// Package conv 提供配置值的宽松转换，供 config 构建器使用。
package conv

// ConfigGet 从配置 map 中取指定类型的值，类型不符或不存在时返回默认值。
func ConfigGet[T any](config map[string]any, key string, def T) T {
	if config == nil {
		return def
	}
	if v, ok := config[key]; ok {
		if tv, ok := v.(T); ok {
			return tv
		}
	}
	return def
}

// ConfigGetInt 取整型配置，兼容 YAML/JSON 解析出的 int / int64 / float64。
func ConfigGetInt(config map[string]any, key string, def int) int {
	if config == nil {
		return def
	}
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// ConfigGetFloat 取浮点配置，兼容 int / int64 / float64。
func ConfigGetFloat(config map[string]any, key string, def float64) float64 {
	if config == nil {
		return def
	}
	switch v := config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// SliceAnyToString 将 []any 转换为 []string，忽略非字符串元素。
func SliceAnyToString(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
