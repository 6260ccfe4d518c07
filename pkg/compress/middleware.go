package compress

import (
	"io"
	"net/http"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/observability"
)

// Middleware returns net/http middleware that applies p to every response
// written through it. The decision is deferred until the response headers
// are about to go out, when the handler's Content-Type and any prior
// Content-Encoding are known. Unlike the interceptor hook, this path
// streams: body bytes flow through the encoder to the client as the
// handler writes them.
func Middleware(p *Pipeline) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &compressWriter{ResponseWriter: w, pipeline: p, req: r}
			defer cw.finish()
			next.ServeHTTP(cw, r)
		})
	}
}

// compressWriter wraps http.ResponseWriter and negotiates compression once,
// at the first WriteHeader or Write.
type compressWriter struct {
	http.ResponseWriter
	pipeline *Pipeline
	req      *http.Request

	encoder     io.WriteCloser
	out         *countingWriter
	enc         encoding.Encoding
	plain       int64
	wroteHeader bool
}

func (w *compressWriter) WriteHeader(status int) {
	// Informational responses do not finalize the headers.
	if status >= 100 && status < 200 {
		w.ResponseWriter.WriteHeader(status)
		return
	}
	if !w.wroteHeader {
		w.wroteHeader = true
		w.decide(status)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		// Declare a sniffed Content-Type before negotiating, as net/http
		// itself would; sniffing after the decision would classify the
		// compressed bytes instead of the payload.
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.encoder == nil {
		return w.ResponseWriter.Write(b)
	}
	n, err := w.encoder.Write(b)
	w.plain += int64(n)
	return n, err
}

// decide runs negotiation right before the headers go out and installs the
// encoder on a compress decision.
func (w *compressWriter) decide(status int) {
	if !statusAllowsBody(status) {
		observability.SkippedResponsesTotal.WithLabelValues(skipNoBody).Inc()
		return
	}
	enc, reason := w.pipeline.negotiate(w.req, w.Header())
	if reason != "" {
		observability.SkippedResponsesTotal.WithLabelValues(reason).Inc()
		return
	}
	out := &countingWriter{w: w.ResponseWriter}
	encoder, err := w.pipeline.encoders[enc](out)
	if err != nil {
		w.pipeline.logger.Error("start response encoder", "encoding", enc.String(), "error", err)
		return
	}
	w.Header().Set("Content-Encoding", enc.String())
	w.Header().Del("Content-Length")
	w.enc = enc
	w.encoder = encoder
	w.out = out
	observability.CompressedResponsesTotal.WithLabelValues(enc.String()).Inc()
}

// finish flushes the encoder trailer after the handler returns.
func (w *compressWriter) finish() {
	if w.encoder == nil {
		return
	}
	token := w.enc.String()
	if err := w.encoder.Close(); err != nil {
		w.pipeline.logger.Error("flush compressed response", "encoding", token, "error", err)
		observability.CompressionFailuresTotal.WithLabelValues(token).Inc()
		return
	}
	observability.CompressedBytesTotal.WithLabelValues(token, "in").Add(float64(w.plain))
	observability.CompressedBytesTotal.WithLabelValues(token, "out").Add(float64(w.out.n))
}

// Flush drains the encoder before forwarding the flush, so the bytes sent
// so far decode cleanly on the client side. Forwarding commits the response
// headers, so a flush ahead of the first write runs the implicit
// WriteHeader first, as net/http does.
func (w *compressWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.encoder.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter, enabling
// http.ResponseController and similar utilities to reach it.
func (w *compressWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func statusAllowsBody(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

// countingWriter counts bytes on their way to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
