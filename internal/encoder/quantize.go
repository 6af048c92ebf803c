package encoder

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
)

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// palettize maps img onto a median-cut palette of at most n colours.
// Images with transparency reserve one entry for a fully transparent colour.
func palettize(img *image.NRGBA, n int) *image.Paletted {
	q := quantize.MedianCutQuantizer{AddTransparent: !img.Opaque()}
	palette := q.Quantize(make(color.Palette, 0, n), img)
	if len(palette) == 0 {
		palette = color.Palette{color.NRGBA{A: 255}}
	}
	dst := image.NewPaletted(img.Rect, palette)
	draw.Draw(dst, dst.Rect, img, img.Rect.Min, draw.Src)
	return dst
}

// posterize reduces each colour channel to the given number of levels,
// leaving alpha untouched.
func posterize(src *image.NRGBA, levels int) *image.NRGBA {
	if levels < 2 {
		levels = 2
	}
	var lut [256]uint8
	steps := float64(levels - 1)
	for v := 0; v < 256; v++ {
		q := math.Round(float64(v) * steps / 255)
		lut[v] = uint8(math.Round(q * 255 / steps))
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			d[i] = lut[s[i]]
			d[i+1] = lut[s[i+1]]
			d[i+2] = lut[s[i+2]]
			d[i+3] = s[i+3]
		}
	}
	return dst
}
