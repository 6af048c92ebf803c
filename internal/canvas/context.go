package canvas

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Context is a 2D drawing context bound to one surface. Like a browser
// canvas context it carries a current transform that applies to every
// subsequent draw.
type Context struct {
	surface *Surface
	m       f64.Aff3
}

// NewContext returns a context drawing into s with an identity transform.
func NewContext(s *Surface) *Context {
	return &Context{surface: s, m: identity}
}

// Matrix returns the current transform as a, b, c, d, e, f, mapping user
// space (x, y) to device space (a*x + c*y + e, b*x + d*y + f).
func (c *Context) Matrix() [6]float64 {
	return [6]float64{c.m[0], c.m[3], c.m[1], c.m[4], c.m[2], c.m[5]}
}

// Transform multiplies the current transform by the matrix
// [a c e; b d f], matching CanvasRenderingContext2D.transform.
func (c *Context) Transform(a, b, cc, d, e, f float64) {
	c.m = mul(c.m, f64.Aff3{a, cc, e, b, d, f})
}

// ResetTransform restores the identity transform.
func (c *Context) ResetTransform() { c.m = identity }

// FillRect fills the device-space bounding box of the transformed rectangle.
// Only axis-aligned transforms fill exactly the requested area.
func (c *Context) FillRect(x, y, w, h float64, col color.Color) {
	r := c.deviceRect(x, y, w, h)
	stddraw.Draw(c.surface.img, r, image.NewUniform(col), image.Point{}, stddraw.Src)
}

// DrawImage draws the whole of src scaled into the user-space rectangle
// (dx, dy, dw, dh), then maps it through the current transform. Unscaled
// draws sample nearest-neighbour so mirrors and right-angle rotations are
// pixel exact; scaled draws use Catmull-Rom.
func (c *Context) DrawImage(src image.Image, dx, dy, dw, dh float64) {
	sr := src.Bounds()
	if sr.Empty() || dw <= 0 || dh <= 0 || c.surface.released {
		return
	}
	sx := dw / float64(sr.Dx())
	sy := dh / float64(sr.Dy())
	place := f64.Aff3{
		sx, 0, dx - sx*float64(sr.Min.X),
		0, sy, dy - sy*float64(sr.Min.Y),
	}
	s2d := mul(c.m, place)

	var interp draw.Transformer = draw.CatmullRom
	if sx == 1 && sy == 1 {
		interp = draw.NearestNeighbor
	}
	interp.Transform(c.surface.img, s2d, src, sr, draw.Over, nil)
}

func (c *Context) deviceRect(x, y, w, h float64) image.Rectangle {
	xs := [4]float64{x, x + w, x, x + w}
	ys := [4]float64{y, y, y + h, y + h}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		px := c.m[0]*xs[i] + c.m[1]*ys[i] + c.m[2]
		py := c.m[3]*xs[i] + c.m[4]*ys[i] + c.m[5]
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	return r.Intersect(c.surface.img.Bounds())
}

// mul returns a·b, the transform that applies b first and then a.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
