package compress

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/pressluft-io/pressluft/pkg/encoding"
)

func serve(t *testing.T, p *Pipeline, handler http.HandlerFunc, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	Middleware(p)(handler).ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareCompressesText(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "hello world")
	}, "gzip")

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); got != "hello world" {
		t.Errorf("decompressed body = %q, want %q", got, "hello world")
	}
}

func TestMiddlewarePassesThroughExcluded(t *testing.T) {
	p := newPipeline(t)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}, "gzip")

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want unset", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Error("body altered, want byte-identical passthrough")
	}
}

func TestMiddlewareRespectsExistingEncoding(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Encoding", "identity")
		io.WriteString(w, "as is")
	}, "gzip")

	if got := rec.Header().Get("Content-Encoding"); got != "identity" {
		t.Errorf("Content-Encoding = %q, want identity untouched", got)
	}
	if got := rec.Body.String(); got != "as is" {
		t.Errorf("body = %q, want %q untouched", got, "as is")
	}
}

func TestMiddlewareNotAccepted(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "plain")
	}, "")

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want unset", got)
	}
	if got := rec.Body.String(); got != "plain" {
		t.Errorf("body = %q, want passthrough", got)
	}
}

func TestMiddlewareSniffsContentType(t *testing.T) {
	p := newPipeline(t)
	page := "<html><body>compressible markup</body></html>"
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, page)
	}, "gzip")

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q, want sniffed text/html", got)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); got != page {
		t.Errorf("decompressed body = %q, want original markup", got)
	}
}

func TestMiddlewareSniffedExclusion(t *testing.T) {
	p := newPipeline(t)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 9, 9, 9}
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}, "gzip")

	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want sniffed image/png", got)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want unset for a sniffed image", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Error("body altered, want byte-identical passthrough")
	}
}

func TestMiddlewareBrotliPreferred(t *testing.T) {
	p := newPipeline(t, WithEncodings(encoding.Gzip, encoding.Brotli))
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "brotli wins")
	}, "gzip, br")

	if got := rec.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	if got := unbrotli(t, rec.Body.Bytes()); got != "brotli wins" {
		t.Errorf("decompressed body = %q, want %q", got, "brotli wins")
	}
}

func TestMiddlewareDropsContentLength(t *testing.T) {
	p := newPipeline(t)
	body := "sized payload, eleven words or thereabouts in length"
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		io.WriteString(w, body)
	}, "gzip")

	if got := rec.Header().Get("Content-Length"); got != "" {
		t.Errorf("Content-Length = %q, want removed before compressing", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); got != body {
		t.Errorf("decompressed body = %q, want original", got)
	}
}

func TestMiddlewareExplicitStatus(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"ok":true}`)
	}, "gzip")

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); got != `{"ok":true}` {
		t.Errorf("decompressed body = %q, want original", got)
	}
}

func TestMiddlewareNoContent(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "gzip")

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want unset on 204", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body length = %d, want 0", rec.Body.Len())
	}
}

func TestMiddlewareStreamsAcrossWrites(t *testing.T) {
	p := newPipeline(t)
	chunks := []string{"first chunk, ", "second chunk, ", "third chunk"}
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		for _, chunk := range chunks {
			io.WriteString(w, chunk)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}, "gzip")

	if !rec.Flushed {
		t.Error("flush did not reach the underlying writer")
	}
	want := strings.Join(chunks, "")
	if got := gunzip(t, rec.Body.Bytes()); got != want {
		t.Errorf("decompressed body = %q, want %q", got, want)
	}
}

func TestMiddlewareFlushBeforeFirstWrite(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		io.WriteString(w, "hello world")
	}, "gzip")

	if !rec.Flushed {
		t.Error("flush did not reach the underlying writer")
	}
	// The early flush commits the headers; Result carries that snapshot,
	// while rec.Header() keeps reflecting later mutations.
	if got := rec.Result().Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("committed Content-Encoding = %q, want gzip", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); got != "hello world" {
		t.Errorf("decompressed body = %q, want %q", got, "hello world")
	}
}

func TestMiddlewareQualityValueTokenIgnored(t *testing.T) {
	p := newPipeline(t)
	rec := serve(t, p, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "no q-value parsing")
	}, "gzip;q=0.5")

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want unset for a q-value token", got)
	}
	if got := rec.Body.String(); got != "no q-value parsing" {
		t.Errorf("body = %q, want passthrough", got)
	}
}
