package apistub

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// gzipResponseWriter compresses everything written through it. The
// Content-Encoding header is set on every status so the body always
// matches it.
type gzipResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func newGzipResponseWriter(w http.ResponseWriter) *gzipResponseWriter {
	zw := gzipWriterPool.Get().(*gzip.Writer)
	zw.Reset(w)

	return &gzipResponseWriter{ResponseWriter: w, zw: zw}
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(statusCode)
}

func (g *gzipResponseWriter) Write(p []byte) (int, error) {
	if g.Header().Get("Content-Encoding") == "" {
		g.WriteHeader(http.StatusOK)
	}

	return g.zw.Write(p)
}

func (g *gzipResponseWriter) Close() error {
	defer gzipWriterPool.Put(g.zw)

	return g.zw.Close()
}

type gzipRequestBody struct {
	body io.ReadCloser
	zr   *gzip.Reader
}

func (g *gzipRequestBody) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipRequestBody) Close() error {
	if err := g.body.Close(); err != nil {
		return err
	}

	return g.zr.Close()
}

// withGzip decompresses gzip request bodies and compresses responses for
// clients announcing gzip support.
func withGzip(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(request.Body)
			if err != nil {
				writeMessage(response, http.StatusBadRequest, "Invalid request body")
				return
			}
			request.Body = &gzipRequestBody{body: request.Body, zr: zr}
		}

		if strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			compressed := newGzipResponseWriter(response)
			defer func() {
				_ = compressed.Close()
			}()
			response = compressed
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
