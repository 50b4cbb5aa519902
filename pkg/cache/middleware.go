package cache

import (
	"bytes"
	"net/http"
)

// cacheResponseWriter captures the body and status so a 200 response
// can be stored after the handler runs.
type cacheResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	written    bool
}

func (w *cacheResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.statusCode = http.StatusOK
		w.written = true
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches GET responses in c, keyed by request URI. Only 200
// responses are stored; everything else passes through uncached. X-Cache
// reports HIT or MISS. A nil cache disables the middleware.
func Middleware(c *LRUCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if cached, ok := c.Get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			}

			crw := &cacheResponseWriter{ResponseWriter: w}
			crw.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(crw, r)

			if crw.statusCode == http.StatusOK {
				c.Set(key, crw.body.Bytes())
			}
		})
	}
}

// statusRecorder captures the status code without buffering the body.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.statusCode == 0 {
		w.statusCode = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// InvalidateOnWrite runs invalidate after the wrapped handler completes
// with a 2xx status. Mutating routes wrap themselves with this so
// cached lists never outlive a successful write.
func InvalidateOnWrite(invalidate func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.statusCode >= 200 && rec.statusCode < 300 {
				invalidate()
			}
		})
	}
}
