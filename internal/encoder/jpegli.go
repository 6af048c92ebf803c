package encoder

import (
	"bytes"
	"image"

	"github.com/gen2brain/jpegli"
)

// JPEGLiEncoder produces JPEG through libjpegli, which packs more detail
// into the same byte budget than the standard library encoder. It uses
// the same 1-100 quality mapping and registers under "jpeg".
type JPEGLiEncoder struct{}

func (e *JPEGLiEncoder) Format() string    { return "jpeg" }
func (e *JPEGLiEncoder) Extension() string { return "jpeg" }

func (e *JPEGLiEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := jpegli.Encode(&buf, img, &jpegli.EncodingOptions{
		Quality:           JPEGQuality(quality),
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewJPEGBackend returns the JPEG encoder named by backend: "jpegli" or
// "std" (the default for any other value).
func NewJPEGBackend(backend string) Encoder {
	if backend == "jpegli" {
		return &JPEGLiEncoder{}
	}
	return &JPEGEncoder{}
}
