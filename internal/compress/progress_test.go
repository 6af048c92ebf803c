package compress

import (
	"math"
	"testing"
)

func TestProgressMonotonicAndClamped(t *testing.T) {
	var got []int
	p := NewProgress(90, func(v int) { got = append(got, v) })
	p.Inc(5)
	p.Set(50)
	p.Inc(20)
	p.Set(100)

	want := []int{95, 95, 100, 100}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestProgressStartClamped(t *testing.T) {
	if v := NewProgress(-10, nil).Value(); v != 0 {
		t.Errorf("got %d, want 0", v)
	}
	if v := NewProgress(150, nil).Value(); v != 100 {
		t.Errorf("got %d, want 100", v)
	}
}

func TestOptionsNormalize(t *testing.T) {
	o := Options{MaxIteration: -1}.Normalize()
	if !math.IsInf(o.MaxSizeMB, 1) {
		t.Errorf("MaxSizeMB: got %v, want +Inf", o.MaxSizeMB)
	}
	if o.MaxIteration != DefaultMaxIteration {
		t.Errorf("MaxIteration: got %d", o.MaxIteration)
	}
	if o.InitialQuality != 1 {
		t.Errorf("InitialQuality: got %v", o.InitialQuality)
	}
	if o.OnProgress == nil {
		t.Error("OnProgress left nil")
	}

	if got := (Options{MaxIteration: 0}).Normalize().MaxIteration; got != 0 {
		t.Errorf("zero MaxIteration: got %d, want 0", got)
	}
	if got := (Options{MaxSizeMB: 1}).MaxSizeBytes(); got != 1<<20 {
		t.Errorf("MaxSizeBytes: got %v", got)
	}
}
