package compress

import (
	"fmt"
	"net/http"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/observability"
)

// ModifyResponse negotiates and applies compression to resp in place. Its
// signature matches the ModifyResponse hook of httputil.ReverseProxy, so a
// Pipeline plugs directly into any interceptor with that shape. The request
// is taken from resp.Request; a nil request declares no capabilities.
//
// Compression failures are never reported here: they surface from the
// replaced body when it is read. The returned error is reserved for the
// hook signature and is always nil.
func (p *Pipeline) ModifyResponse(resp *http.Response) error {
	enc, reason := p.negotiate(resp.Request, resp.Header)
	if reason != "" {
		observability.SkippedResponsesTotal.WithLabelValues(reason).Inc()
		return nil
	}
	if !hasBody(resp) {
		observability.SkippedResponsesTotal.WithLabelValues(skipNoBody).Inc()
		return nil
	}
	if err := p.Apply(resp, enc); err != nil {
		// Unreachable for encodings enabled at construction. Pass the
		// response through rather than failing it.
		p.logger.Error("apply response compression", "encoding", enc.String(), "error", err)
		return nil
	}
	observability.CompressedResponsesTotal.WithLabelValues(enc.String()).Inc()
	return nil
}

// Apply replaces resp's body with one that compresses with enc, and
// declares enc in Content-Encoding. The original body is owned by the
// replacement from here on: it is drained and closed the first time the
// new body is read. Content-Length is dropped since the compressed length
// is unknown until then.
//
// Responses without a body are left untouched, and the header is never set
// unless the body was actually replaced. Apply fails only when enc has no
// registered encoder.
func (p *Pipeline) Apply(resp *http.Response, enc encoding.Encoding) error {
	newEncoder, ok := p.encoders[enc]
	if !ok {
		return fmt.Errorf("no encoder registered for %q", enc)
	}
	if !hasBody(resp) {
		return nil
	}

	resp.Body = &compressedBody{
		src:        resp.Body,
		enc:        enc,
		newEncoder: newEncoder,
		logger:     p.logger,
	}
	resp.Header.Set("Content-Encoding", enc.String())
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	return nil
}

// hasBody reports whether the response carries a body that could be
// compressed. Informational, No Content and Not Modified responses never
// carry one.
func hasBody(resp *http.Response) bool {
	if resp.Body == nil || resp.Body == http.NoBody {
		return false
	}
	if resp.StatusCode >= 100 && resp.StatusCode < 200 {
		return false
	}
	return resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotModified
}
