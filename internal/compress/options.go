package compress

import (
	"math"

	"github.com/AnyUserName/imgshrink/internal/orient"
)

// DefaultMaxIteration is the reduction budget DefaultOptions carries.
const DefaultMaxIteration = 10

// Options configures one compression call. The zero value is usable after
// Normalize, except that a zero MaxIteration runs no reduction iterations.
type Options struct {
	// MaxSizeMB is the byte budget in MiB. Zero, negative or +Inf means
	// unlimited.
	MaxSizeMB float64
	// MaxWidthOrHeight bounds the longer edge. Zero or +Inf means unbounded.
	MaxWidthOrHeight float64
	// MaxIteration caps the reduction loop. Negative means DefaultMaxIteration.
	MaxIteration int
	// FileType is the output type ("png" or "jpeg"). Empty keeps the source
	// type; anything but png encodes as jpeg.
	FileType string
	// InitialQuality is the first-pass quality in (0, 1]. Zero means 1.
	InitialQuality float64
	// AlwaysKeepResolution disables shrinking in the reduction loop.
	AlwaysKeepResolution bool
	// Orientation overrides the tag read from the source when non-zero.
	Orientation orient.Orientation
	// ReturnFilePath persists the result and reports its path.
	ReturnFilePath bool
	// OnProgress receives non-decreasing percentages ending at 100.
	OnProgress func(percent int)
}

// DefaultOptions returns options with every default spelled out.
func DefaultOptions() Options {
	return Options{
		MaxSizeMB:      math.Inf(1),
		MaxIteration:   DefaultMaxIteration,
		InitialQuality: 1,
	}
}

// Normalize fills in defaults and returns the result. o is not modified.
func (o Options) Normalize() Options {
	if o.MaxSizeMB <= 0 || math.IsNaN(o.MaxSizeMB) {
		o.MaxSizeMB = math.Inf(1)
	}
	if o.MaxWidthOrHeight < 0 || math.IsNaN(o.MaxWidthOrHeight) {
		o.MaxWidthOrHeight = 0
	}
	if o.MaxIteration < 0 {
		o.MaxIteration = DefaultMaxIteration
	}
	if o.InitialQuality <= 0 || o.InitialQuality > 1 || math.IsNaN(o.InitialQuality) {
		o.InitialQuality = 1
	}
	if o.OnProgress == nil {
		o.OnProgress = func(int) {}
	}
	return o
}

// MaxSizeBytes converts MaxSizeMB to bytes.
func (o Options) MaxSizeBytes() float64 {
	return o.MaxSizeMB * 1024 * 1024
}
