// Package orient undoes the capture-time rotation and mirroring recorded
// in an image's orientation tag.
package orient

import (
	"strings"

	"github.com/AnyUserName/imgshrink/internal/canvas"
)

// Orientation is one of the eight canonical EXIF orientation tags.
type Orientation int

const (
	Up            Orientation = 1 // no-op
	UpMirrored    Orientation = 2 // mirror horizontal
	Down          Orientation = 3 // rotate 180°
	DownMirrored  Orientation = 4 // mirror vertical
	LeftMirrored  Orientation = 5 // transpose
	Right         Orientation = 6 // rotate 90° CW
	RightMirrored Orientation = 7 // transverse
	Left          Orientation = 8 // rotate 90° CCW
)

var names = map[string]Orientation{
	"up":             Up,
	"up-mirrored":    UpMirrored,
	"down":           Down,
	"down-mirrored":  DownMirrored,
	"left-mirrored":  LeftMirrored,
	"right":          Right,
	"right-mirrored": RightMirrored,
	"left":           Left,
}

// Parse maps an orientation name such as "right" or "up-mirrored" to its
// tag. Unknown names map to Up.
func Parse(name string) Orientation {
	if o, ok := names[strings.ToLower(strings.TrimSpace(name))]; ok {
		return o
	}
	return Up
}

// Normalize returns o when it is a canonical tag and Up otherwise.
func (o Orientation) Normalize() Orientation {
	if o < Up || o > Left {
		return Up
	}
	return o
}

// SwapsAxes reports whether correcting o rotates by ±90°.
func (o Orientation) SwapsAxes() bool {
	o = o.Normalize()
	return o > DownMirrored
}

// Size returns the output size after correcting o on a w×h input.
func (o Orientation) Size(w, h int) (int, int) {
	if o.SwapsAxes() {
		return h, w
	}
	return w, h
}

// Matrix returns the canvas transform (a, b, c, d, e, f) that corrects o
// on a w×h input.
func (o Orientation) Matrix(w, h float64) [6]float64 {
	switch o.Normalize() {
	case UpMirrored:
		return [6]float64{-1, 0, 0, 1, w, 0}
	case Down:
		return [6]float64{-1, 0, 0, -1, w, h}
	case DownMirrored:
		return [6]float64{1, 0, 0, -1, 0, h}
	case LeftMirrored:
		return [6]float64{0, 1, 1, 0, 0, 0}
	case Right:
		return [6]float64{0, 1, -1, 0, h, 0}
	case RightMirrored:
		return [6]float64{0, -1, -1, 0, h, w}
	case Left:
		return [6]float64{0, -1, 1, 0, 0, w}
	default:
		return [6]float64{1, 0, 0, 1, 0, 0}
	}
}

// Apply draws src into a new surface with o corrected and releases src.
// The surface is redrawn even for Up so every stage hands over a fresh
// surface. On error src is left untouched and still belongs to the caller.
func Apply(alloc canvas.Allocator, src *canvas.Surface, o Orientation) (*canvas.Surface, error) {
	w, h := src.Width(), src.Height()
	dw, dh := o.Size(w, h)

	dst, ctx, err := alloc.CreateSurface(float64(dw), float64(dh))
	if err != nil {
		return nil, err
	}
	m := o.Matrix(float64(w), float64(h))
	ctx.Transform(m[0], m[1], m[2], m[3], m[4], m[5])
	ctx.DrawImage(src.Image(), 0, 0, float64(w), float64(h))

	src.Release()
	return dst, nil
}
