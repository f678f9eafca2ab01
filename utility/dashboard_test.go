package utility

import (
	"testing"
	"time"

	"go-grad/moons"
)

func TestDownsample(t *testing.T) {
	data := []float64{1, 3, 5, 7, 9, 11}
	got := downsample(data, 3)
	want := []float64{2, 6, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bin %d: expected %g, got %g", i, want[i], got[i])
		}
	}

	if short := downsample(data, 10); len(short) != len(data) {
		t.Errorf("expected data unchanged when it fits, got %v", short)
	}
	if same := downsample(data, 0); len(same) != len(data) {
		t.Errorf("expected data unchanged for zero width, got %v", same)
	}
}

func TestGraphRows(t *testing.T) {
	res := moons.StepResult{Step: 3, Nodes: 5000}
	rows := graphRows(res, 10, 2*time.Second)
	want := []string{
		"Graph Nodes: 5000",
		"Nodes/s: 10000",
		"Per Step: 500ms",
		"Total Time: 2s  ETA: 3s",
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}
