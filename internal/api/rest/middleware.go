package rest

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/nDmitry/wpgallery/internal/app"
)

// Logger wraps an http.Handler with request/response logging
func Logger(next http.Handler) http.Handler {
	logger := app.Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture the status code
		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 OK
		}

		logger.Info("HTTP request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)

		logger.Info("HTTP response",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"bytes", lrw.bytesWritten,
		)
	})
}

// Compress gzips responses except for the websocket endpoint, which needs
// the raw connection.
func Compress(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == wsPath {
			next.ServeHTTP(w, r)
			return
		}

		gz.ServeHTTP(w, r)
	})
}

// loggingResponseWriter is a wrapper for http.ResponseWriter that captures status code and response size
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code
func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size
func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

// Hijack lets websocket upgrades through the wrapper
func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := lrw.ResponseWriter.(http.Hijacker)

	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}

	lrw.statusCode = http.StatusSwitchingProtocols

	return hj.Hijack()
}

// Unwrap returns the original ResponseWriter
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
