package encoder

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds the encoders the pipeline can rasterize into, keyed by
// format. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the built-in JPEG and PNG encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{&JPEGEncoder{}, &PNGEncoder{}} {
		r.Register(enc)
	}
	return r
}

// Register adds or replaces the encoder for enc.Format().
func (r *Registry) Register(enc Encoder) {
	r.mu.Lock()
	r.encoders[strings.ToLower(enc.Format())] = enc
	r.mu.Unlock()
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encoders[strings.ToLower(format)]
}

// Available returns all registered format names in priority order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []string
	for _, f := range []string{"jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormat normalizes a file type or MIME type into an output
// format. Only PNG is kept as PNG; every other type renders as JPEG.
func ResolveFormat(fileType string) string {
	t := strings.ToLower(strings.TrimSpace(fileType))
	t = strings.TrimPrefix(t, "image/")
	if t == "png" {
		return "png"
	}
	return "jpeg"
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
