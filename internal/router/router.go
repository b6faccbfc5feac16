package router

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promosite/service-api/internal/banner"
	"github.com/promosite/service-api/internal/contact"
	"github.com/promosite/service-api/internal/user"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows the configured SPA origin to call the API with
// credentials and answers preflight requests.
func CORSMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Config bundles the handlers and middleware the router mounts. Handlers
// are injected so tests can wire in-memory stores.
type Config struct {
	Logger     *zap.SugaredLogger
	Users      *user.Handler
	Banners    *banner.Handler
	Contacts   *contact.Handler
	Auth       func(http.Handler) http.Handler
	CORSOrigin string
	// UploadsDir enables static serving of disk-stored assets when non-empty.
	UploadsDir string
}

// New mounts all HTTP routes on the standard library's http.ServeMux.
func New(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// auth
	mux.HandleFunc("POST /api/auth/register", cfg.Users.Register)
	mux.HandleFunc("POST /api/auth/login", cfg.Users.Login)
	mux.Handle("GET /api/auth/me", cfg.Auth(http.HandlerFunc(cfg.Users.Me)))
	mux.Handle("POST /api/auth/logout", cfg.Auth(http.HandlerFunc(cfg.Users.Logout)))

	// user management (all protected)
	mux.Handle("GET /api/users", cfg.Auth(http.HandlerFunc(cfg.Users.List)))
	mux.Handle("GET /api/users/{id}", cfg.Auth(http.HandlerFunc(cfg.Users.Get)))
	mux.Handle("PUT /api/users/{id}", cfg.Auth(http.HandlerFunc(cfg.Users.Update)))
	mux.Handle("DELETE /api/users/{id}", cfg.Auth(http.HandlerFunc(cfg.Users.Delete)))

	// banners
	mux.HandleFunc("POST /api/banners", cfg.Banners.Create)
	mux.HandleFunc("GET /api/banners", cfg.Banners.List)
	mux.HandleFunc("PATCH /api/banners/{id}", cfg.Banners.Update)
	mux.HandleFunc("DELETE /api/banners/{id}", cfg.Banners.Delete)

	// contact form
	mux.HandleFunc("POST /api/contact", cfg.Contacts.Create)

	// static uploaded assets
	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		mux.Handle("GET /uploads/", fs)
	}

	handler := LoggingMiddleware(cfg.Logger)(SecurityHeadersMiddleware()(mux))
	if cfg.CORSOrigin != "" {
		handler = CORSMiddleware(cfg.CORSOrigin)(handler)
	}
	return handler
}
