package feature

import "math"

// StandardScaler 是列级 Z-score 标准化器。
// 公式: z = (x - μ) / σ
// 特点: 每列均值变为 0，标准差变为 1；σ 为 0 的列原样置 0，避免除零。
type StandardScaler struct {
	Mean []float64 // 每列均值
	Std  []float64 // 每列标准差（总体标准差）
}

// FitTransform 在列数据上拟合均值/标准差并返回标准化结果。
// columns 为列优先布局：columns[j][i] 是第 i 个样本的第 j 列。
func (s *StandardScaler) FitTransform(columns [][]float64) [][]float64 {
	s.Mean = make([]float64, len(columns))
	s.Std = make([]float64, len(columns))

	out := make([][]float64, len(columns))
	for j, col := range columns {
		n := float64(len(col))
		if n == 0 {
			out[j] = nil
			continue
		}

		var sum float64
		for _, x := range col {
			sum += x
		}
		mean := sum / n

		var sq float64
		for _, x := range col {
			d := x - mean
			sq += d * d
		}
		std := math.Sqrt(sq / n)

		s.Mean[j] = mean
		s.Std[j] = std

		scaled := make([]float64, len(col))
		for i, x := range col {
			if std > 0 {
				scaled[i] = (x - mean) / std
			}
		}
		out[j] = scaled
	}
	return out
}
