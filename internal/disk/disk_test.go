package disk

import "testing"

func TestEstimateUpdateMB(t *testing.T) {
	tests := []struct {
		packages int
		want     int64
	}{
		{0, 0},
		{1, 50},
		{5, 250},
		{10, 500},
	}

	for _, tt := range tests {
		if got := EstimateUpdateMB(tt.packages); got != tt.want {
			t.Errorf("EstimateUpdateMB(%d) = %d, want %d", tt.packages, got, tt.want)
		}
	}
}

func TestFreeMB(t *testing.T) {
	if got := FreeMB(t.TempDir()); got < 0 {
		t.Errorf("FreeMB on a real directory = %d, want >= 0", got)
	}
	if got := FreeMB("/definitely/not/a/path"); got != -1 {
		t.Errorf("FreeMB on a missing path = %d, want -1", got)
	}
}

func TestFormatMB(t *testing.T) {
	if got := FormatMB(-1); got != "unknown" {
		t.Errorf("FormatMB(-1) = %q, want unknown", got)
	}
	if got := FormatMB(50); got != "50 MiB" {
		t.Errorf("FormatMB(50) = %q, want 50 MiB", got)
	}
}
