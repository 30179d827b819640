package searchtypes

import "testing"

func TestContextWindow(t *testing.T) {
	w := ContextWindow{StartLine: 4, Lines: []string{"a", "b", "c"}, MatchLines: []int{5}}

	if w.EndLine() != 7 {
		t.Errorf("EndLine() = %d, want 7", w.EndLine())
	}
	if !w.IsMatch(5) {
		t.Errorf("Expected line 5 to be a match line")
	}
	if w.IsMatch(4) {
		t.Errorf("Expected line 4 to be context only")
	}
}

func TestScanProgressFraction(t *testing.T) {
	tests := []struct {
		name string
		p    ScanProgress
		want float64
	}{
		{"unknown total", ScanProgress{Current: 3}, 0},
		{"half", ScanProgress{Current: 2, Total: 4}, 0.5},
		{"done", ScanProgress{Current: 4, Total: 4}, 1},
		{"overshoot clamps", ScanProgress{Current: 5, Total: 4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Fraction(); got != tt.want {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}
