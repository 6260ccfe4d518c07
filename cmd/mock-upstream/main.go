// Command mock-upstream runs a deterministic origin server for
// exercising the proxy by hand. Each route serves a different content
// shape: compressible text, excluded binary types, an already-encoded
// body, and a chunked stream.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzip"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handleIndex)
	mux.HandleFunc("GET /lorem", handleLorem)
	mux.HandleFunc("GET /data.json", handleJSON)
	mux.HandleFunc("GET /logo.png", handlePNG)
	mux.HandleFunc("GET /archive.bin", handleBinary)
	mux.HandleFunc("GET /pre-gzipped", handlePreGzipped)
	mux.HandleFunc("GET /stream", handleStream)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock upstream failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html>
<html>
<head><title>mock upstream</title></head>
<body>
<h1>mock upstream</h1>
<ul>
<li><a href="/lorem">/lorem</a> - large compressible text</li>
<li><a href="/data.json">/data.json</a> - JSON payload</li>
<li><a href="/logo.png">/logo.png</a> - image, excluded by default</li>
<li><a href="/archive.bin">/archive.bin</a> - octet-stream, excluded by default</li>
<li><a href="/pre-gzipped">/pre-gzipped</a> - body compressed at the origin</li>
<li><a href="/stream">/stream</a> - chunked stream</li>
</ul>
</body>
</html>
`)
}

func handleLorem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	line := "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore.\n"
	fmt.Fprint(w, strings.Repeat(line, 200))
}

func handleJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"service":"mock-upstream","items":[{"id":1,"name":"alpha"},{"id":2,"name":"beta"},{"id":3,"name":"gamma"}]}`)
}

// handlePNG serves bytes labeled image/png. Only the declared type
// matters to the proxy, so a signature prefix is enough.
func handlePNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0})
}

func handleBinary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write([]byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff})
}

func handlePreGzipped(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Encoding", "gzip")
	zw := gzip.NewWriter(w)
	fmt.Fprint(zw, "this body was compressed at the origin\n")
	zw.Close()
}

func handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(w, "chunk %d\n", i)
		flusher.Flush()
		time.Sleep(100 * time.Millisecond)
	}
	fmt.Fprint(w, "done\n")
}
