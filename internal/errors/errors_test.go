package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if err := Wrap(CategoryDecode, "op", nil); err != nil {
		t.Fatalf("Wrap(nil): got %v, want nil", err)
	}
}

func TestCategoryThroughWrapping(t *testing.T) {
	base := New(CategorySurface, "canvas.create", ErrSurfaceUnavailable)
	wrapped := fmt.Errorf("compress: %w", base)

	if !IsCategory(wrapped, CategorySurface) {
		t.Error("wrapped error lost its category")
	}
	if IsCategory(wrapped, CategoryDecode) {
		t.Error("wrapped error matched the wrong category")
	}
	if !errors.Is(wrapped, ErrSurfaceUnavailable) {
		t.Error("errors.Is did not reach the sentinel")
	}
	if got := CategoryOf(wrapped); got != CategorySurface {
		t.Errorf("CategoryOf: got %q, want %q", got, CategorySurface)
	}
	if got := CategoryOf(errors.New("plain")); got != "" {
		t.Errorf("CategoryOf(plain): got %q, want empty", got)
	}
}

func TestErrorString(t *testing.T) {
	err := New(CategoryHostIO, "host.info", errors.New("no such file"))
	want := "[host_io] host.info: no such file"
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}
}
