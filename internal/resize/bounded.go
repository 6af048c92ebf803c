package resize

import (
	"math"

	"github.com/AnyUserName/imgshrink/internal/canvas"
)

// Unbounded reports whether maxWidthOrHeight places no limit on the edges.
func Unbounded(maxWidthOrHeight float64) bool {
	return maxWidthOrHeight <= 0 || math.IsInf(maxWidthOrHeight, 1) || math.IsNaN(maxWidthOrHeight)
}

// BoundedSize returns the size src should be drawn at so that its longer
// edge equals maxWidthOrHeight. ok is false when no resize is needed.
func BoundedSize(width, height, maxWidthOrHeight float64) (w, h float64, ok bool) {
	if Unbounded(maxWidthOrHeight) || (width <= maxWidthOrHeight && height <= maxWidthOrHeight) {
		return width, height, false
	}
	if width > height {
		return maxWidthOrHeight, height / width * maxWidthOrHeight, true
	}
	return width / height * maxWidthOrHeight, maxWidthOrHeight, true
}

// Bounded scales src down when either edge exceeds maxWidthOrHeight. When
// nothing needs to change src itself is returned. Otherwise the result is
// a new surface and src is released; on error src is left untouched and
// still belongs to the caller.
func Bounded(alloc canvas.Allocator, src *canvas.Surface, maxWidthOrHeight float64) (*canvas.Surface, error) {
	w, h, ok := BoundedSize(float64(src.Width()), float64(src.Height()), maxWidthOrHeight)
	if !ok {
		return src, nil
	}

	dst, ctx, err := alloc.CreateSurface(w, h)
	if err != nil {
		return nil, err
	}
	ctx.DrawImage(src.Image(), 0, 0, float64(dst.Width()), float64(dst.Height()))
	src.Release()
	return dst, nil
}
