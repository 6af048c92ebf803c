package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"
)

// JPEGEncoder encodes images to JPEG using Go's standard library. Quality
// maps linearly onto the codec's 1-100 scale.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpeg" }

// JPEGQuality converts a (0, 1] quality into the codec's 1-100 scale.
func JPEGQuality(quality float64) int {
	q := int(math.Round(clampQuality(quality) * 100))
	if q < 1 {
		q = 1
	}
	return q
}

func (e *JPEGEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality(quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
