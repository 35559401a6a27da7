package commands

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelFor runs fn(row) for every row in [0, n) on up to GOMAXPROCS workers.
func parallelFor(n int, fn func(row int)) {
	_ = parallelForStop(n, func(row int) bool {
		fn(row)
		return false
	})
}

// parallelForStop runs fn(row) for every row in [0, n) on up to GOMAXPROCS workers.
// Rows are strided across workers. The first fn returning true stops all workers and
// makes parallelForStop return true.
func parallelForStop(n int, fn func(row int) bool) bool {
	if n <= 0 {
		return false
	}
	workers := min(runtime.GOMAXPROCS(0), n)

	var stop atomic.Bool
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for row := w; row < n && !stop.Load(); row += workers {
				if fn(row) {
					stop.Store(true)
					return
				}
			}
		}()
	}

	wg.Wait()
	return stop.Load()
}

// hasTransparency reports whether any pixel of img has alpha below fully opaque.
func hasTransparency(img image.Image) bool {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return false
	}
	bounds := img.Bounds()
	return parallelForStop(bounds.Dy(), func(row int) bool {
		y := bounds.Min.Y + row
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	})
}
