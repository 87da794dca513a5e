package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"cpu bound", 1.0, 0, available},
		{"io bound", 2.0, 0, available * 2},
		{"limit caps count", 2.0, 1, 1},
		{"zero multiplier floors at one", 0.0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("RESCAN_WORKERS", "7")

	if got := Count(1.0, 0); got != 7 {
		t.Errorf("Count with RESCAN_WORKERS=7 = %d, want 7", got)
	}
	if got := Count(1.0, 3); got != 3 {
		t.Errorf("Count with RESCAN_WORKERS=7 and limit 3 = %d, want 3", got)
	}
}

func TestCountInvalidOverride(t *testing.T) {
	t.Setenv("RESCAN_WORKERS", "not-a-number")

	if got := ForCPU(0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("ForCPU with invalid override = %d, want %d", got, runtime.GOMAXPROCS(0))
	}
}

func TestForIO(t *testing.T) {
	if got := ForIO(4); got < 1 || got > 4 {
		t.Errorf("ForIO(4) = %d, want between 1 and 4", got)
	}
}
