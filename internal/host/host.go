// Package host reads source images from the local file system: their
// metadata, their size on disk and their decoded pixels.
package host

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
	"github.com/AnyUserName/imgshrink/internal/orient"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo is read once per compression and never mutated.
type ImageInfo struct {
	Width       int
	Height      int
	MimeType    string // "jpeg", "png", "gif", "webp", "bmp", "tiff"
	Orientation orient.Orientation
}

// Host is the narrow interface the compressor uses to reach source images.
type Host interface {
	// ImageInfo returns dimensions, type and orientation of ref.
	ImageInfo(ref string) (ImageInfo, error)
	// FileSize returns the size of ref in bytes.
	FileSize(ref string) (int64, error)
	// LoadPixels decodes ref. Orientation is not applied.
	LoadPixels(ref string) (image.Image, error)
}

// Files is a Host backed by the local file system; refs are paths.
type Files struct{}

// NewFiles returns a file-system host.
func NewFiles() *Files { return &Files{} }

func (Files) ImageInfo(ref string) (ImageInfo, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return ImageInfo{}, apperrors.Wrap(apperrors.CategoryHostIO, "host.info", err)
	}
	if len(data) == 0 {
		return ImageInfo{}, apperrors.New(apperrors.CategoryInput, "host.info",
			fmt.Errorf("%w: %s", apperrors.ErrEmptyInput, ref))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, apperrors.Wrap(apperrors.CategoryHostIO, "host.info",
			fmt.Errorf("read image header of %s: %w", ref, err))
	}
	return ImageInfo{
		Width:       cfg.Width,
		Height:      cfg.Height,
		MimeType:    format,
		Orientation: ReadOrientation(bytes.NewReader(data)),
	}, nil
}

func (Files) FileSize(ref string) (int64, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CategoryHostIO, "host.size", err)
	}
	if info.IsDir() {
		return 0, apperrors.New(apperrors.CategoryHostIO, "host.size", fmt.Errorf("%s is a directory", ref))
	}
	return info.Size(), nil
}

func (Files) LoadPixels(ref string) (image.Image, error) {
	f, err := os.Open(ref)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryHostIO, "host.load", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "host.load", fmt.Errorf("decode %s: %w", ref, err))
	}
	return img, nil
}

// ReadOrientation returns the EXIF orientation tag found in r, or
// orient.Up when there is none or it cannot be read.
func ReadOrientation(r io.Reader) orient.Orientation {
	x, err := exif.Decode(r)
	if err != nil {
		return orient.Up
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orient.Up
	}
	v, err := tag.Int(0)
	if err != nil {
		return orient.Up
	}
	return orient.Orientation(v).Normalize()
}
