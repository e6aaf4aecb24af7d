package feature

import (
	"math"
	"testing"
)

func TestStandardScalerFitTransform(t *testing.T) {
	s := &StandardScaler{}
	out := s.FitTransform([][]float64{{2, 4, 6}})

	if math.Abs(s.Mean[0]-4) > 1e-9 {
		t.Errorf("Mean = %v, want 4", s.Mean[0])
	}
	// 总体标准差：sqrt(((2-4)^2+(4-4)^2+(6-4)^2)/3) = sqrt(8/3)
	wantStd := math.Sqrt(8.0 / 3.0)
	if math.Abs(s.Std[0]-wantStd) > 1e-9 {
		t.Errorf("Std = %v, want %v", s.Std[0], wantStd)
	}

	// 标准化后均值 0、方差 1
	var sum, sq float64
	for _, x := range out[0] {
		sum += x
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("scaled mean = %v, want 0", sum/3)
	}
	for _, x := range out[0] {
		sq += x * x
	}
	if math.Abs(sq/3-1) > 1e-9 {
		t.Errorf("scaled variance = %v, want 1", sq/3)
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	s := &StandardScaler{}
	out := s.FitTransform([][]float64{{5, 5, 5}})

	// 标准差为 0 的列置 0，不除零
	for i, x := range out[0] {
		if x != 0 {
			t.Errorf("out[0][%d] = %v, want 0", i, x)
		}
	}
}

func TestStandardScalerIndependentColumns(t *testing.T) {
	s := &StandardScaler{}
	out := s.FitTransform([][]float64{{0, 10}, {100, 300}})

	// 两列独立标准化：都标准化为 ±1
	for j := 0; j < 2; j++ {
		if math.Abs(out[j][0]+1) > 1e-9 || math.Abs(out[j][1]-1) > 1e-9 {
			t.Errorf("column %d = %v, want [-1 1]", j, out[j])
		}
	}
}
