// Package resize computes and applies the working resolution of the
// compression pipeline: the canvas-area ceiling and the caller's bound on
// the longer edge.
package resize

import "math"

// maxClampSteps bounds the averaging contraction. It converges long before
// this for any finite input; the cap only guards pathological floats.
const maxClampSteps = 256

// Clamp returns a resolution whose area fits within maxEdge², keeping the
// aspect ratio. Inputs already within bound come back unchanged. The
// longer edge is repeatedly averaged with maxEdge and the shorter edge
// follows by ratio, so the result is not the tightest fit but it is
// stable: Clamp(Clamp(w, h)) == Clamp(w, h).
func Clamp(width, height float64, maxEdge int) (float64, float64) {
	limit := float64(maxEdge) * float64(maxEdge)
	if maxEdge <= 0 || width <= 0 || height <= 0 || width*height <= limit {
		return width, height
	}

	edge := float64(maxEdge)
	ratio := width / height
	if width > height {
		ratio = height / width
	}

	for i := 0; width*height > limit; i++ {
		if i == maxClampSteps {
			s := math.Sqrt(limit/(width*height)) * (1 - 1e-9)
			return width * s, height * s
		}
		halfW := (edge + width) / 2
		halfH := (edge + height) / 2
		if halfW < halfH {
			height = halfH
			width = halfH * ratio
		} else {
			width = halfW
			height = halfW * ratio
		}
	}
	return width, height
}
