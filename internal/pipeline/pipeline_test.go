package pipeline

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/imgshrink/internal/canvas"
	"github.com/AnyUserName/imgshrink/internal/compress"
	"github.com/AnyUserName/imgshrink/internal/host"
	"github.com/AnyUserName/imgshrink/internal/report"
	"github.com/AnyUserName/imgshrink/internal/storage"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if filepath.Ext(path) == ".png" {
		err = png.Encode(f, img)
	} else {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), imaging.New(4, 4, color.White))
	writeImage(t, filepath.Join(dir, "sub", "b.jpg"), imaging.New(4, 4, color.White))
	writeImage(t, filepath.Join(dir, ".hidden", "c.png"), imaging.New(4, 4, color.White))
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	sources, err := Scan([]string{dir, filepath.Join(dir, "a.png")})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	keys := map[string]string{}
	for _, s := range sources {
		keys[s.Key] = s.Format
	}
	want := map[string]string{"a": "png", "sub/b": "jpeg", "a-2": "png"}
	if len(keys) != len(want) {
		t.Fatalf("keys: got %v, want %v", keys, want)
	}
	for k, f := range want {
		if keys[k] != f {
			t.Errorf("key %q: got format %q, want %q", k, keys[k], f)
		}
	}

	if _, err := Scan([]string{filepath.Join(dir, "notes.txt")}); err == nil {
		t.Error("expected error for a non-image file")
	}
}

func TestScanSuffixSkipsTakenKeys(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), imaging.New(4, 4, color.White))
	writeImage(t, filepath.Join(dir, "a-2.png"), imaging.New(4, 4, color.White))

	sources, err := Scan([]string{dir, filepath.Join(dir, "a.png"), filepath.Join(dir, "a-2.png")})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sources) != 4 {
		t.Fatalf("sources: got %d, want 4", len(sources))
	}
	keys := map[string]string{}
	for _, s := range sources {
		if prev, dup := keys[s.Key]; dup {
			t.Fatalf("key %q assigned to %s and %s", s.Key, prev, s.RelPath)
		}
		keys[s.Key] = s.RelPath
	}
	for _, k := range []string{"a", "a-2", "a-3", "a-2-2"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing key %q in %v", k, keys)
		}
	}
	if keys["a-2"] != "a-2.png" {
		t.Errorf("key a-2: got %s, want the file a-2.png", keys["a-2"])
	}
}

func TestRunBuildsReport(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeImage(t, filepath.Join(in, "wide.png"), imaging.New(120, 60, color.NRGBA{R: 200, A: 255}))
	writeImage(t, filepath.Join(in, "nested", "tall.jpg"), imaging.New(30, 90, color.NRGBA{B: 200, A: 255}))

	store, err := storage.NewLocal(out)
	if err != nil {
		t.Fatal(err)
	}
	alloc := canvas.NewOffscreen(0)
	c := compress.New(host.NewFiles(), compress.WithStore(store), compress.WithAllocator(alloc))

	var mu sync.Mutex
	last := map[string]int{}
	opts := compress.DefaultOptions()
	opts.MaxWidthOrHeight = 50
	p := New(Config{
		Inputs:    []string{in},
		OutputDir: out,
		Preset:    "default",
		Options:   opts,
		Workers:   2,
		OnProgress: func(key string, percent int) {
			mu.Lock()
			last[key] = percent
			mu.Unlock()
		},
	}, c, nil)

	rep, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Stats.TotalEntries != 2 || rep.Stats.Failed != 0 {
		t.Fatalf("stats: got %+v", rep.Stats)
	}

	wide := rep.Entries["wide"]
	if wide.Output.Width != 50 || wide.Output.Height != 25 || wide.Output.Format != "png" {
		t.Errorf("wide output: got %+v", wide.Output)
	}
	tall := rep.Entries["nested/tall"]
	if tall.Output.Height != 50 || tall.Output.Format != "jpeg" {
		t.Errorf("tall output: got %+v", tall.Output)
	}
	for key, v := range last {
		if v != 100 {
			t.Errorf("%s: last progress %d, want 100", key, v)
		}
	}
	if alloc.Live() != 0 {
		t.Errorf("live surfaces: got %d, want 0", alloc.Live())
	}

	path := filepath.Join(out, "imgshrink.report.json")
	if err := report.WriteJSON(rep, path); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if errs := report.Validate(rep, out); len(errs) != 0 {
		t.Errorf("report invalid: %v", errs)
	}
}

func TestRunAllFail(t *testing.T) {
	in := t.TempDir()
	os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644)

	store, _ := storage.NewLocal(t.TempDir())
	c := compress.New(host.NewFiles(), compress.WithStore(store))
	p := New(Config{Inputs: []string{in}, Options: compress.DefaultOptions()}, c, nil)

	if _, err := p.Run(); err == nil {
		t.Error("expected error when every source fails")
	}
}
