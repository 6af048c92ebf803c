// Package compress shrinks one encoded image to a byte budget. It clamps
// the working resolution to the canvas ceiling, applies the caller's edge
// bound, undoes the orientation tag, encodes once and then trades
// resolution and quality against the budget for a bounded number of
// iterations.
package compress

import (
	"fmt"
	"image/color"
	"math"

	"go.uber.org/zap"

	"github.com/AnyUserName/imgshrink/internal/canvas"
	"github.com/AnyUserName/imgshrink/internal/encoder"
	apperrors "github.com/AnyUserName/imgshrink/internal/errors"
	"github.com/AnyUserName/imgshrink/internal/hasher"
	"github.com/AnyUserName/imgshrink/internal/host"
	"github.com/AnyUserName/imgshrink/internal/orient"
	"github.com/AnyUserName/imgshrink/internal/resize"
	"github.com/AnyUserName/imgshrink/internal/storage"
)

// Per-iteration decay factors of the reduction loop.
const (
	shrinkFactor     = 0.95
	pngQualityDecay  = 0.85
	jpegQualityDecay = 0.95
)

// Result is the encoded output of one call.
type Result struct {
	Buffer     []byte
	SizeBytes  int64
	Width      int
	Height     int
	FileType   string
	Quality    float64 // quality of the returned encode
	Iterations int     // reduction iterations run
	Converged  bool    // SizeBytes meets both the budget and the source size
	Source     host.ImageInfo
	SourceSize int64
	Hash       string // xxhash of Buffer
	Path       string // set when Options.ReturnFilePath
}

// Compressor runs the pipeline against one host. A Compressor holds no
// per-call state and may be shared between goroutines.
type Compressor struct {
	host     host.Host
	alloc    canvas.Allocator
	encoders *encoder.Registry
	store    storage.Persister
	logger   *zap.Logger
	maxEdge  int
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithAllocator sets where surfaces come from.
func WithAllocator(a canvas.Allocator) Option { return func(c *Compressor) { c.alloc = a } }

// WithEncoders replaces the encoder registry.
func WithEncoders(r *encoder.Registry) Option { return func(c *Compressor) { c.encoders = r } }

// WithStore sets the persister used for ReturnFilePath.
func WithStore(s storage.Persister) Option { return func(c *Compressor) { c.store = s } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Compressor) { c.logger = l } }

// WithMaxCanvasEdge sets the canvas ceiling; areas above edge² are clamped.
func WithMaxCanvasEdge(edge int) Option { return func(c *Compressor) { c.maxEdge = edge } }

// New creates a Compressor reading sources through h.
func New(h host.Host, opts ...Option) *Compressor {
	c := &Compressor{
		host:     h,
		alloc:    canvas.NewOffscreen(0),
		encoders: encoder.NewRegistry(),
		logger:   zap.NewNop(),
		maxEdge:  canvas.DefaultMaxEdge,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// MaxCanvasEdge returns the canvas ceiling fixed at construction.
func (c *Compressor) MaxCanvasEdge() int { return c.maxEdge }

// Compress shrinks the image at ref according to opts.
func (c *Compressor) Compress(ref string, opts Options) (*Result, error) {
	return c.CompressFrom(ref, opts, 0)
}

// CompressFrom is Compress with progress resuming from previousProgress.
func (c *Compressor) CompressFrom(ref string, opts Options, previousProgress int) (*Result, error) {
	opts = opts.Normalize()
	log := c.logger.With(zap.String("ref", ref))

	info, err := c.host.ImageInfo(ref)
	if err != nil {
		return nil, err
	}
	sourceSize, err := c.host.FileSize(ref)
	if err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "compress",
			fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidDimensions, info.Width, info.Height))
	}

	fileType := opts.FileType
	if fileType == "" {
		fileType = info.MimeType
	}
	format := encoder.ResolveFormat(fileType)
	enc := c.encoders.Get(format)
	if enc == nil {
		return nil, apperrors.New(apperrors.CategoryInput, "compress",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}

	orientation := info.Orientation
	if opts.Orientation != 0 {
		orientation = opts.Orientation
	}

	maxSize := opts.MaxSizeBytes()
	progress := NewProgress(previousProgress, opts.OnProgress)

	var held surfaces
	defer held.release()

	progress.Inc(stageStep)

	// Draw the source at the clamped resolution.
	img, err := c.host.LoadPixels(ref)
	if err != nil {
		return nil, err
	}
	w, h := resize.Clamp(float64(info.Width), float64(info.Height), c.maxEdge)
	orig, ctx, err := c.alloc.CreateSurface(w, h)
	if err != nil {
		return nil, c.surfaceFailed(log, "draw", err)
	}
	held.hold(orig)
	if format == "jpeg" {
		ctx.FillRect(0, 0, float64(orig.Width()), float64(orig.Height()), color.White)
	}
	ctx.DrawImage(img, 0, 0, float64(orig.Width()), float64(orig.Height()))
	log.Debug("drawn", zap.Int("width", orig.Width()), zap.Int("height", orig.Height()))
	progress.Inc(stageStep)

	bounded, err := resize.Bounded(c.alloc, orig, opts.MaxWidthOrHeight)
	if err != nil {
		return nil, c.surfaceFailed(log, "bound", err)
	}
	held.hold(bounded)
	progress.Inc(stageStep)

	orientation = orientation.Normalize()
	progress.Inc(stageStep)

	oriented, err := orient.Apply(c.alloc, bounded, orientation)
	if err != nil {
		return nil, c.surfaceFailed(log, "orient", err)
	}
	held.hold(oriented)
	log.Debug("oriented",
		zap.Int("orientation", int(orientation)),
		zap.Int("width", oriented.Width()),
		zap.Int("height", oriented.Height()),
	)
	progress.Inc(stageStep)

	quality := opts.InitialQuality
	first, err := c.encode(enc, oriented, quality)
	if err != nil {
		return nil, err
	}
	progress.Inc(stageStep)

	res := &Result{
		Buffer:     first,
		SizeBytes:  int64(len(first)),
		Width:      oriented.Width(),
		Height:     oriented.Height(),
		FileType:   format,
		Quality:    quality,
		Source:     info,
		SourceSize: sourceSize,
	}

	renderedSize := float64(len(first))
	source := float64(sourceSize)
	exceedsMax := renderedSize > maxSize
	grew := renderedSize > source
	log.Debug("first pass",
		zap.Int("size", len(first)),
		zap.Int64("source", sourceSize),
		zap.Bool("exceeds_max", exceedsMax),
		zap.Bool("grew", grew),
	)

	if !exceedsMax && !grew {
		res.Converged = true
		return c.finish(res, enc, opts, progress)
	}

	// Reduction loop.
	shrink := !opts.AlwaysKeepResolution && exceedsMax
	target := maxSize
	if !exceedsMax {
		target = source
	}
	denom := math.Max(renderedSize-target, 1)

	decay := jpegQualityDecay
	if format == "png" {
		decay = pngQualityDecay
	}

	cur := oriented
	currentSize := renderedSize
	for remaining := opts.MaxIteration; remaining > 0 && (currentSize > maxSize || currentSize > source); remaining-- {
		nw, nh := float64(cur.Width()), float64(cur.Height())
		if shrink {
			nw *= shrinkFactor
			nh *= shrinkFactor
		}
		next, nctx, err := c.alloc.CreateSurface(nw, nh)
		if err != nil {
			return nil, c.surfaceFailed(log, "reduce", err)
		}
		held.hold(next)
		nctx.DrawImage(cur.Image(), 0, 0, float64(next.Width()), float64(next.Height()))

		quality *= decay
		buf, err := c.encode(enc, next, quality)
		if err != nil {
			return nil, err
		}
		cur.Release()
		cur = next

		currentSize = float64(len(buf))
		res.Buffer = buf
		res.SizeBytes = int64(len(buf))
		res.Width, res.Height = cur.Width(), cur.Height()
		res.Quality = quality
		res.Iterations++

		log.Debug("reduced",
			zap.Int("iteration", res.Iterations),
			zap.Int("width", res.Width),
			zap.Int("height", res.Height),
			zap.Float64("quality", quality),
			zap.Int("size", len(buf)),
		)
		progress.Set(min(99, int(math.Floor((renderedSize-currentSize)/denom*100))))
	}

	res.Converged = currentSize <= maxSize && currentSize <= source
	return c.finish(res, enc, opts, progress)
}

func (c *Compressor) finish(res *Result, enc encoder.Encoder, opts Options, progress *Progress) (*Result, error) {
	res.Hash = hasher.Sum(res.Buffer, hasher.DefaultLen)
	if opts.ReturnFilePath {
		if c.store == nil {
			return nil, apperrors.New(apperrors.CategoryConfig, "compress.persist",
				fmt.Errorf("file path requested but no store configured"))
		}
		path, err := c.store.Persist(res.Buffer, enc.Extension())
		if err != nil {
			return nil, err
		}
		res.Path = path
	}
	progress.Set(100)
	return res, nil
}

func (c *Compressor) encode(enc encoder.Encoder, s *canvas.Surface, quality float64) ([]byte, error) {
	buf, err := enc.Encode(s.Image(), quality)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "encode."+enc.Format(), err)
	}
	return buf, nil
}

// surfaceFailed logs a surface error where it was detected. The error is
// returned as is.
func (c *Compressor) surfaceFailed(log *zap.Logger, stage string, err error) error {
	log.Error("surface unavailable", zap.String("stage", stage), zap.Error(err))
	return err
}

// surfaces releases every surface it holds when the call returns,
// whichever path it returns by. Release is idempotent, so surfaces a
// stage already released are skipped.
type surfaces []*canvas.Surface

func (s *surfaces) hold(sf *canvas.Surface) { *s = append(*s, sf) }

func (s *surfaces) release() {
	for _, sf := range *s {
		sf.Release()
	}
}
