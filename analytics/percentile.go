package analytics

// Percentile 计算 value 在人群取值中的百分位。
//
// 定义：严格小于 value 的人群取值个数 / 人群规模 × 100。
// 用严格小于而不是小于等于 —— 同分时结果不同，必须保持此语义。
// 空人群返回 0（除零保护）。
func Percentile(population []float64, value float64) float64 {
	if len(population) == 0 {
		return 0
	}
	below := 0
	for _, v := range population {
		if v < value {
			below++
		}
	}
	return float64(below) / float64(len(population)) * 100
}
