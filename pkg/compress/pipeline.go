package compress

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/mediatype"
)

// encoderFunc builds a streaming encoder that writes its compressed output
// to w. The returned writer must be closed to flush the format trailer.
type encoderFunc func(w io.Writer) (io.WriteCloser, error)

// preference is the negotiation order among enabled encodings.
var preference = []encoding.Encoding{encoding.Brotli, encoding.Gzip}

// Pipeline decides and applies response compression. All fields are fixed
// at construction, so a single Pipeline is safe for concurrent use across
// responses; per-response state lives in the bodies and writers it creates.
type Pipeline struct {
	exclusions mediatype.Exclusions
	encoders   map[encoding.Encoding]encoderFunc
	logger     *slog.Logger
}

type options struct {
	encodings     []encoding.Encoding
	exclusions    mediatype.Exclusions
	hasExclusions bool
	gzipLevel     int
	brotliQuality int
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*options)

// WithEncodings sets the encodings the pipeline may apply. Listing order
// does not matter: Brotli is always preferred over gzip when both are
// enabled and accepted. The default is gzip only.
func WithEncodings(encs ...encoding.Encoding) Option {
	return func(o *options) {
		o.encodings = encs
	}
}

// WithExclusions replaces the default exclusion list entirely. An empty
// list disables content-type exclusion.
func WithExclusions(excl mediatype.Exclusions) Option {
	return func(o *options) {
		o.exclusions = excl
		o.hasExclusions = true
	}
}

// WithGzipLevel sets the gzip compression level.
func WithGzipLevel(level int) Option {
	return func(o *options) {
		o.gzipLevel = level
	}
}

// WithBrotliQuality sets the brotli quality, 0 through 11.
func WithBrotliQuality(quality int) Option {
	return func(o *options) {
		o.brotliQuality = quality
	}
}

// WithLogger sets the logger used for compression failures and decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds a Pipeline. It fails when an enabled encoding has no encoder
// or a level or quality is out of range, so a misconfigured process refuses
// to start instead of skipping responses at runtime.
func New(opts ...Option) (*Pipeline, error) {
	o := options{
		encodings:     []encoding.Encoding{encoding.Gzip},
		gzipLevel:     gzip.DefaultCompression,
		brotliQuality: defaultBrotliQuality,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	exclusions := o.exclusions
	if !o.hasExclusions {
		exclusions = mediatype.DefaultExclusions()
	}

	p := &Pipeline{
		exclusions: exclusions,
		encoders:   make(map[encoding.Encoding]encoderFunc, len(o.encodings)),
		logger:     o.logger,
	}
	for _, enc := range o.encodings {
		f, err := newEncoderFunc(enc, o)
		if err != nil {
			return nil, err
		}
		p.encoders[enc] = f
	}
	return p, nil
}

// defaultBrotliQuality trades ratio for speed, suitable for on-the-fly
// response compression.
const defaultBrotliQuality = 2

func newEncoderFunc(enc encoding.Encoding, o options) (encoderFunc, error) {
	switch enc {
	case encoding.Gzip:
		// Probe the level once so invalid configuration fails at startup.
		if _, err := gzip.NewWriterLevel(io.Discard, o.gzipLevel); err != nil {
			return nil, fmt.Errorf("gzip level %d: %w", o.gzipLevel, err)
		}
		level := o.gzipLevel
		return func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, level)
		}, nil
	case encoding.Brotli:
		if o.brotliQuality < brotli.BestSpeed || o.brotliQuality > brotli.BestCompression {
			return nil, fmt.Errorf("brotli quality %d: out of range %d..%d",
				o.brotliQuality, brotli.BestSpeed, brotli.BestCompression)
		}
		wopts := brotli.WriterOptions{Quality: o.brotliQuality}
		return func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriterOptions(w, wopts), nil
		}, nil
	default:
		return nil, fmt.Errorf("no encoder for %q", enc)
	}
}
