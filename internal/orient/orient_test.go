package orient

import (
	"image"
	"image/color"
	"testing"

	"github.com/AnyUserName/imgshrink/internal/canvas"
)

// fixture returns a 3×2 image whose pixels all differ.
//
//	A B C
//	D E F
func fixture(t *testing.T, alloc canvas.Allocator) *canvas.Surface {
	t.Helper()
	s, ctx, err := alloc.CreateSurface(3, 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetNRGBA(x, y, px(x, y))
		}
	}
	ctx.DrawImage(src, 0, 0, 3, 2)
	return s
}

func px(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(10 + x*40), G: uint8(10 + y*100), B: 77, A: 255}
}

func TestSizeForAllTags(t *testing.T) {
	for o := Up; o <= Left; o++ {
		w, h := o.Size(40, 30)
		if o >= LeftMirrored {
			if w != 30 || h != 40 {
				t.Errorf("tag %d: got %dx%d, want 30x40", o, w, h)
			}
		} else if w != 40 || h != 30 {
			t.Errorf("tag %d: got %dx%d, want 40x30", o, w, h)
		}
	}
}

func TestUnknownIsIdentity(t *testing.T) {
	for _, o := range []Orientation{0, -3, 9, 42} {
		if o.Normalize() != Up {
			t.Errorf("Normalize(%d): got %d, want 1", o, o.Normalize())
		}
		if o.SwapsAxes() {
			t.Errorf("tag %d must not swap axes", o)
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Orientation{
		"up": Up, "up-mirrored": UpMirrored, "down": Down, "down-mirrored": DownMirrored,
		"left": Left, "left-mirrored": LeftMirrored, "right": Right, "right-mirrored": RightMirrored,
		"RIGHT": Right, "": Up, "sideways": Up,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q): got %d, want %d", in, got, want)
		}
	}
}

func TestApplyPixelMapping(t *testing.T) {
	// want[o] lists, row by row, which source pixel lands at each output pixel.
	type pt struct{ x, y int }
	want := map[Orientation][][]pt{
		Up:            {{{0, 0}, {1, 0}, {2, 0}}, {{0, 1}, {1, 1}, {2, 1}}},
		UpMirrored:    {{{2, 0}, {1, 0}, {0, 0}}, {{2, 1}, {1, 1}, {0, 1}}},
		Down:          {{{2, 1}, {1, 1}, {0, 1}}, {{2, 0}, {1, 0}, {0, 0}}},
		DownMirrored:  {{{0, 1}, {1, 1}, {2, 1}}, {{0, 0}, {1, 0}, {2, 0}}},
		LeftMirrored:  {{{0, 0}, {0, 1}}, {{1, 0}, {1, 1}}, {{2, 0}, {2, 1}}},
		Right:         {{{0, 1}, {0, 0}}, {{1, 1}, {1, 0}}, {{2, 1}, {2, 0}}},
		RightMirrored: {{{2, 1}, {2, 0}}, {{1, 1}, {1, 0}}, {{0, 1}, {0, 0}}},
		Left:          {{{2, 0}, {2, 1}}, {{1, 0}, {1, 1}}, {{0, 0}, {0, 1}}},
	}

	for o, rows := range want {
		alloc := canvas.NewOffscreen(0)
		src := fixture(t, alloc)

		dst, err := Apply(alloc, src, o)
		if err != nil {
			t.Fatalf("tag %d: %v", o, err)
		}
		if !src.Released() {
			t.Errorf("tag %d: source not released", o)
		}
		if dst.Width() != len(rows[0]) || dst.Height() != len(rows) {
			t.Fatalf("tag %d: size %dx%d, want %dx%d", o, dst.Width(), dst.Height(), len(rows[0]), len(rows))
		}

		img := dst.Image().(*image.NRGBA)
		for y, row := range rows {
			for x, p := range row {
				if got := img.NRGBAAt(x, y); got != px(p.x, p.y) {
					t.Errorf("tag %d: pixel (%d,%d) = %v, want source (%d,%d) %v",
						o, x, y, got, p.x, p.y, px(p.x, p.y))
				}
			}
		}
		dst.Release()
		if alloc.Live() != 0 {
			t.Errorf("tag %d: %d surfaces leaked", o, alloc.Live())
		}
	}
}
