package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

const pageBody = "<html><body>hello from the origin</body></html>"

func TestGzipNegotiatedOverTCP(t *testing.T) {
	resp := get(t, "/page", map[string]string{"Accept-Encoding": "gzip"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want %q", got, "gzip")
	}
	wantBody(t, gunzipBody(t, resp), pageBody)
}

func TestBrotliPreferredOverGzip(t *testing.T) {
	resp := get(t, "/page", map[string]string{"Accept-Encoding": "gzip, br"})

	if got := resp.Header.Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want %q", got, "br")
	}
	wantBody(t, unbrotliBody(t, resp), pageBody)
}

func TestNoAcceptEncodingPassesThrough(t *testing.T) {
	resp := get(t, "/page", nil)

	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want none", got)
	}
	wantBody(t, readBody(t, resp), pageBody)
}

func TestLargeBodyShrinks(t *testing.T) {
	plain := get(t, "/lorem", nil)
	plainBody := readBody(t, plain)

	resp := get(t, "/lorem", map[string]string{"Accept-Encoding": "gzip"})
	defer resp.Body.Close()
	compressed, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	if len(compressed) >= len(plainBody) {
		t.Errorf("compressed %d bytes >= plain %d bytes", len(compressed), len(plainBody))
	}
}

func TestExcludedImagePassesThrough(t *testing.T) {
	resp := get(t, "/logo.png", map[string]string{"Accept-Encoding": "gzip, br"})

	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want none", got)
	}
	body := readBody(t, resp)
	if body != string(pngBytes) {
		t.Errorf("image body altered: got %d bytes, want %d", len(body), len(pngBytes))
	}
}

func TestOriginEncodedBodyUntouched(t *testing.T) {
	resp := get(t, "/pre-gzipped", map[string]string{"Accept-Encoding": "gzip"})

	if got := resp.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want %q", got, "gzip")
	}
	// One gunzip pass must recover the original text; a double-compressed
	// body would come out as gzip garbage.
	wantBody(t, gunzipBody(t, resp), "compressed at the origin")
}

func TestNoContentResponse(t *testing.T) {
	resp := get(t, "/empty", map[string]string{"Accept-Encoding": "gzip"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want none", got)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	resp := get(t, "/page", map[string]string{"X-Request-ID": "integration-42"})
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "integration-42" {
		t.Errorf("X-Request-ID = %q, want %q", got, "integration-42")
	}
}

func TestUnknownEncodingIgnored(t *testing.T) {
	resp := get(t, "/page", map[string]string{"Accept-Encoding": "zstd"})

	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want none", got)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "hello from the origin") {
		t.Errorf("body = %q", body)
	}
}
