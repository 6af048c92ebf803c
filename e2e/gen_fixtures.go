//go:build ignore

// gen_fixtures creates sample images for a manual imgshrink smoke run.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "rotated"), 0o755)

	// Noisy photo that needs the reduction loop to fit 100 KB.
	writeJPEG(filepath.Join(dir, "photo.jpg"), noise(1600, 1200), 0)

	// Same photo tagged with every rotating orientation.
	for _, o := range []uint16{5, 6, 7, 8} {
		name := fmt.Sprintf("orient-%d.jpg", o)
		writeJPEG(filepath.Join(dir, "rotated", name), noise(320, 160), o)
	}

	// Transparent PNG; jpeg output paints it on white.
	writePNG(filepath.Join(dir, "logo.png"), imaging.New(256, 256, color.NRGBA{R: 220, G: 60, B: 30, A: 90}))

	// Panorama above the 4096² canvas ceiling.
	writePNG(filepath.Join(dir, "panorama.png"), imaging.New(20000, 1200, color.NRGBA{R: 30, G: 90, B: 160, A: 255}))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func noise(w, h int) *image.NRGBA {
	r := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return imaging.Blur(img, 1.5)
}

func writeJPEG(path string, img image.Image, orientation uint16) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
	data := buf.Bytes()
	if orientation > 1 {
		data = withOrientation(data, orientation)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

// withOrientation inserts a big-endian EXIF APP1 segment holding only the
// orientation tag after the SOI marker.
func withOrientation(jpg []byte, o uint16) []byte {
	tiff := []byte{
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, byte(o >> 8), byte(o), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := len(payload) + 2

	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}
