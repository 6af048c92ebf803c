package preset

import (
	"math"
	"testing"
)

func TestGetKnown(t *testing.T) {
	p := Get("wechat")
	if p.Name != "wechat" || p.MaxSizeMB != 1 || p.FileType != "jpeg" {
		t.Errorf("got %+v", p)
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	p := Get("nope")
	if p.Name != "nope" {
		t.Errorf("name: got %q, want requested name kept", p.Name)
	}
	if p.MaxIteration != Get(DefaultName).MaxIteration {
		t.Errorf("iterations: got %d", p.MaxIteration)
	}
}

func TestOptions(t *testing.T) {
	o := Get(DefaultName).Options()
	if !math.IsInf(o.MaxSizeMB, 1) {
		t.Errorf("MaxSizeMB: got %v, want +Inf", o.MaxSizeMB)
	}
	if o.MaxIteration != 10 || o.InitialQuality != 1 {
		t.Errorf("got %+v", o)
	}

	k := Get("keep-resolution").Options()
	if !k.AlwaysKeepResolution || k.MaxSizeMB != 2 {
		t.Errorf("keep-resolution: got %+v", k)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}
