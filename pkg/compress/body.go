package compress

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/observability"
)

// compressedBody lazily compresses a source body. Nothing is read from the
// source until the first Read, which drains it through the encoder in one
// pass and closes it. A failure anywhere in that pass is stored and
// returned from this and every later Read, so consumers always observe the
// error instead of a silently truncated payload.
//
// Like any http response body it expects a single consumer; Read and Close
// must not be called concurrently.
type compressedBody struct {
	src        io.ReadCloser
	enc        encoding.Encoding
	newEncoder encoderFunc
	logger     *slog.Logger

	done bool
	buf  bytes.Buffer
	err  error
}

func (b *compressedBody) Read(p []byte) (int, error) {
	if !b.done {
		b.materialize()
	}
	if b.err != nil {
		return 0, b.err
	}
	return b.buf.Read(p)
}

// Close releases the source when the body is abandoned before being read.
// After materialization there is nothing left to release.
func (b *compressedBody) Close() error {
	if b.done {
		return nil
	}
	b.done = true
	src := b.src
	b.src = nil
	return src.Close()
}

// materialize runs the single compression pass. The source is closed
// regardless of outcome.
func (b *compressedBody) materialize() {
	b.done = true
	src := b.src
	b.src = nil
	defer src.Close()

	w, err := b.newEncoder(&b.buf)
	if err != nil {
		b.fail(fmt.Errorf("start %s encoder: %w", b.enc, err))
		return
	}
	plain, err := io.Copy(w, src)
	if err != nil {
		b.fail(fmt.Errorf("read response body: %w", err))
		return
	}
	if err := w.Close(); err != nil {
		b.fail(fmt.Errorf("flush %s encoder: %w", b.enc, err))
		return
	}

	token := b.enc.String()
	observability.CompressedBytesTotal.WithLabelValues(token, "in").Add(float64(plain))
	observability.CompressedBytesTotal.WithLabelValues(token, "out").Add(float64(b.buf.Len()))
}

func (b *compressedBody) fail(err error) {
	b.err = err
	b.buf.Reset()
	b.logger.Error("response compression failed", "encoding", b.enc.String(), "error", err)
	observability.CompressionFailuresTotal.WithLabelValues(b.enc.String()).Inc()
}
