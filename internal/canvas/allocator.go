package canvas

import (
	"fmt"
	"sync"
	"sync/atomic"

	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
)

// DefaultMaxEdge is the largest canvas edge most hosts can back with
// graphics memory. Areas above DefaultMaxEdge² are clamped before drawing.
const DefaultMaxEdge = 4096

// DefaultSelector names the node the fallback allocator draws into.
const DefaultSelector = "canvas"

// Allocator hands out drawing surfaces. The pipeline depends only on this
// interface, never on how a surface is acquired.
type Allocator interface {
	// CreateSurface returns a fresh surface of the given size (fractions
	// truncated) and a context bound to it. Failures carry
	// apperrors.CategorySurface.
	CreateSurface(width, height float64) (*Surface, *Context, error)
}

// LiveCounter is implemented by allocators that track unreleased surfaces.
type LiveCounter interface {
	Live() int64
}

// ── Offscreen ─────────────────────────────────────────────────────────────────

// Offscreen allocates detached surfaces directly. A surface with an edge
// above MaxEdge is refused, which lets a fallback allocator take over.
type Offscreen struct {
	MaxEdge int // 0 = unlimited
	live    atomic.Int64
}

// NewOffscreen returns an offscreen allocator with the given edge limit.
func NewOffscreen(maxEdge int) *Offscreen {
	return &Offscreen{MaxEdge: maxEdge}
}

func (o *Offscreen) CreateSurface(width, height float64) (*Surface, *Context, error) {
	w, h, err := dims("offscreen.create", width, height)
	if err != nil {
		return nil, nil, err
	}
	if o.MaxEdge > 0 && (w > o.MaxEdge || h > o.MaxEdge) {
		return nil, nil, apperrors.New(apperrors.CategorySurface, "offscreen.create",
			fmt.Errorf("%w: %dx%d exceeds offscreen edge limit %d", apperrors.ErrSurfaceUnavailable, w, h, o.MaxEdge))
	}
	o.live.Add(1)
	s := newSurface(w, h, func() { o.live.Add(-1) })
	return s, NewContext(s), nil
}

// Live returns the number of surfaces handed out and not yet released.
func (o *Offscreen) Live() int64 { return o.live.Load() }

// ── Node-backed fallback ──────────────────────────────────────────────────────

// Nodes serves surfaces through an attached, selector-addressed node,
// the way a page-embedded canvas element backs drawing when no detached
// canvas is available.
type Nodes struct {
	selector string

	mu       sync.RWMutex
	attached map[string]bool

	live atomic.Int64
}

// NewNodes returns a node allocator that draws through selector. An empty
// selector means DefaultSelector.
func NewNodes(selector string) *Nodes {
	if selector == "" {
		selector = DefaultSelector
	}
	return &Nodes{selector: selector, attached: make(map[string]bool)}
}

// Attach makes a node with the given selector available.
func (n *Nodes) Attach(selector string) {
	n.mu.Lock()
	n.attached[selector] = true
	n.mu.Unlock()
}

func (n *Nodes) CreateSurface(width, height float64) (*Surface, *Context, error) {
	w, h, err := dims("node.create", width, height)
	if err != nil {
		return nil, nil, err
	}
	n.mu.RLock()
	ok := n.attached[n.selector]
	n.mu.RUnlock()
	if !ok {
		return nil, nil, apperrors.New(apperrors.CategorySurface, "node.create",
			fmt.Errorf("%w: no node attached for selector %q", apperrors.ErrSurfaceUnavailable, n.selector))
	}
	n.live.Add(1)
	s := newSurface(w, h, func() { n.live.Add(-1) })
	return s, NewContext(s), nil
}

// Live returns the number of surfaces handed out and not yet released.
func (n *Nodes) Live() int64 { return n.live.Load() }

// ── Chain ─────────────────────────────────────────────────────────────────────

type chain []Allocator

// WithFallback tries primary first and each fallback in order whenever the
// previous allocator reports a surface error. Other errors stop the chain.
func WithFallback(primary Allocator, fallbacks ...Allocator) Allocator {
	return append(chain{primary}, fallbacks...)
}

func (c chain) CreateSurface(width, height float64) (*Surface, *Context, error) {
	var lastErr error
	for _, a := range c {
		s, ctx, err := a.CreateSurface(width, height)
		if err == nil {
			return s, ctx, nil
		}
		if !apperrors.IsCategory(err, apperrors.CategorySurface) {
			return nil, nil, err
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

// Live sums the live counts of every member that tracks them.
func (c chain) Live() int64 {
	var n int64
	for _, a := range c {
		if lc, ok := a.(LiveCounter); ok {
			n += lc.Live()
		}
	}
	return n
}
