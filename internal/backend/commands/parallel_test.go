package commands

import (
	"image"
	"image/color"
	"sync/atomic"
	"testing"
)

func TestParallelFor_VisitsEveryRowOnce(t *testing.T) {
	const n = 257
	var counts [n]atomic.Int32
	parallelFor(n, func(row int) {
		counts[row].Add(1)
	})
	for i := range counts {
		if c := counts[i].Load(); c != 1 {
			t.Fatalf("row %d visited %d times", i, c)
		}
	}
}

func TestParallelForStop(t *testing.T) {
	if parallelForStop(0, func(int) bool { return true }) {
		t.Error("expected false for empty range")
	}
	if !parallelForStop(100, func(row int) bool { return row == 42 }) {
		t.Error("expected true when a row stops the loop")
	}
	if parallelForStop(100, func(int) bool { return false }) {
		t.Error("expected false when no row stops the loop")
	}
}

func TestHasTransparency(t *testing.T) {
	if hasTransparency(makeQuadrantImage(10, 10)) {
		t.Error("opaque image reported as transparent")
	}

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{1, 2, 3, 255})
		}
	}
	if hasTransparency(img) {
		t.Error("fully opaque NRGBA reported as transparent")
	}
	img.SetNRGBA(9, 9, color.NRGBA{1, 2, 3, 254})
	if !hasTransparency(img) {
		t.Error("expected transparency to be detected")
	}
}
