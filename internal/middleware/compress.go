// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// compressible reports whether a response content type benefits from gzip.
// Event streams are never compressed: gzip buffering would hold back the
// content updates pushed to open landing pages.
func compressible(contentType string) bool {
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = contentType[:i]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "text/event-stream" {
		return false
	}
	switch contentType {
	case "application/json", "application/javascript", "image/svg+xml":
		return true
	}
	return strings.HasPrefix(contentType, "text/")
}

// Compress gzip-compresses responses for clients that accept it. The
// decision is made per response when the first byte is written, so handlers
// emitting streaming or already compressed content pass through untouched.
func Compress(level int) func(http.Handler) http.Handler {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, level)
			return gz
		},
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
				strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				next.ServeHTTP(w, r)
				return
			}
			cw := &compressWriter{ResponseWriter: w, pool: pool}
			defer cw.close()
			next.ServeHTTP(cw, r)
		})
	}
}

// compressWriter defers the compress-or-not decision until the response
// content type is known.
type compressWriter struct {
	http.ResponseWriter
	pool    *sync.Pool
	gz      *gzip.Writer
	decided bool
}

func (cw *compressWriter) decide() {
	if cw.decided {
		return
	}
	cw.decided = true
	if !compressible(cw.Header().Get("Content-Type")) {
		return
	}
	cw.Header().Set("Content-Encoding", "gzip")
	cw.Header().Add("Vary", "Accept-Encoding")
	cw.Header().Del("Content-Length")
	gz := cw.pool.Get().(*gzip.Writer)
	gz.Reset(cw.ResponseWriter)
	cw.gz = gz
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.decide()
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	cw.decide()
	if cw.gz != nil {
		return cw.gz.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *compressWriter) Flush() {
	if cw.gz != nil {
		_ = cw.gz.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) close() {
	if cw.gz == nil {
		return
	}
	_ = cw.gz.Close()
	cw.pool.Put(cw.gz)
	cw.gz = nil
}
