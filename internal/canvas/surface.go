// Package canvas provides the working surfaces the compression pipeline
// draws into, a 2D drawing context with an affine transform, and the
// allocators that hand surfaces out.
//
// Surfaces are owned by exactly one pipeline stage at a time. The owner
// must call Release once the surface is superseded; Release zeroes the
// dimensions so the pixel buffer can be reclaimed.
package canvas

import (
	"fmt"
	"image"
	"math"

	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
)

// Surface is an owned, mutable rectangular pixel buffer.
type Surface struct {
	img       *image.NRGBA
	onRelease func()
	released  bool
}

func newSurface(w, h int, onRelease func()) *Surface {
	return &Surface{
		img:       image.NewNRGBA(image.Rect(0, 0, w, h)),
		onRelease: onRelease,
	}
}

// Width returns the surface width in pixels (0 once released).
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels (0 once released).
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image exposes the backing pixels for reading. The returned image must
// not be retained past Release.
func (s *Surface) Image() image.Image { return s.img }

// Released reports whether Release has been called.
func (s *Surface) Released() bool { return s.released }

// Release zeroes the surface dimensions and drops the pixel buffer.
// Calling it more than once is a no-op; a nil surface is ignored.
func (s *Surface) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.img = &image.NRGBA{}
	if s.onRelease != nil {
		s.onRelease()
	}
}

// Dim converts a fractional edge length into whole pixels the way a
// canvas does: the fraction is truncated and the result is at least 1.
func Dim(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

func dims(op string, width, height float64) (int, int, error) {
	if math.IsNaN(width) || math.IsNaN(height) || math.IsInf(width, 0) || math.IsInf(height, 0) || width < 0 || height < 0 {
		return 0, 0, apperrors.New(apperrors.CategorySurface, op,
			fmt.Errorf("%w: %vx%v", apperrors.ErrInvalidDimensions, width, height))
	}
	return Dim(width), Dim(height), nil
}
