package encoder

import (
	"image"
	"math"
)

// Encoder rasterizes a surface image into an encoded byte buffer.
// Implementations must be deterministic for identical inputs and must not
// keep a reference to img after returning.
type Encoder interface {
	// Format returns the output format name ("jpeg" or "png").
	Format() string

	// Encode converts the image to bytes at the given quality in (0, 1].
	Encode(img image.Image, quality float64) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}

// clampQuality maps quality into (0, 1]; NaN and non-positive values
// become the smallest usable quality.
func clampQuality(q float64) float64 {
	switch {
	case math.IsNaN(q) || q <= 0:
		return 0.01
	case q > 1:
		return 1
	}
	return q
}
