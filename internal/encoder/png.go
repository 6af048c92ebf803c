package encoder

import (
	"bytes"
	"image"
	"image/png"
	"math"
)

// losslessColors is the palette budget at quality 1.0. Budgets at or above
// it keep every pixel.
const losslessColors = 4096

// PNGEncoder encodes images to PNG. PNG has no quality knob, so quality
// becomes a colour budget: round(4096 * quality) colours. A budget of 256
// or fewer produces an indexed image from a median-cut palette; larger
// budgets posterize each channel to cbrt(budget) levels.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }

// PaletteBudget returns the number of colours a quality allows.
func PaletteBudget(quality float64) int {
	n := int(math.Round(losslessColors * clampQuality(quality)))
	if n < 2 {
		n = 2
	}
	return n
}

func (e *PNGEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	colors := PaletteBudget(quality)

	var out image.Image
	switch {
	case colors >= losslessColors:
		out = img
	case colors <= 256:
		out = palettize(toNRGBA(img), colors)
	default:
		out = posterize(toNRGBA(img), int(math.Cbrt(float64(colors))))
	}

	var buf bytes.Buffer
	buf.Grow(512 * 1024) // pre-alloc 512KB

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
