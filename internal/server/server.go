package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/MediDispenser_Go/internal/auth"
	"github.com/osse101/MediDispenser_Go/internal/dispenselog"
	"github.com/osse101/MediDispenser_Go/internal/handler"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
	"github.com/osse101/MediDispenser_Go/internal/logger"
	"github.com/osse101/MediDispenser_Go/internal/metrics"
)

// Deps carries everything the router needs
type Deps struct {
	Port            int
	TrustedProxies  []string
	DeviceRateLimit int // requests per minute per client IP, 0 disables

	Tokens    auth.Validator
	Store     handler.Pinger
	Inventory inventory.Service
	Alarms    handler.AlarmLister
	Dispenser handler.Dispenser
	Logs      dispenselog.Service

	// Clock returns the current instant in the dispenser's timezone
	Clock handler.Clock
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", deps.Port),
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the HTTP routing tree
func NewRouter(deps Deps) http.Handler {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Device routes carry no credentials, so they are rate limited per client instead
	limiter := NewRateLimiter(deps.DeviceRateLimit, DeviceRateWindow)
	r.Route("/device", func(r chi.Router) {
		r.Use(RateLimitMiddleware(deps.TrustedProxies, limiter))
		r.Get("/alarms", handler.HandleDeviceAlarms(deps.Alarms))
		r.Get("/dispense", handler.HandleDeviceDispense(deps.Dispenser, now))
	})

	// Caregiver routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Tokens))

		r.Get("/inventory", handler.HandleGetInventory(deps.Inventory))
		r.Route("/slot/{n}", func(r chi.Router) {
			r.Post("/", handler.HandleReplaceSlot(deps.Inventory))
			r.Post("/clear", handler.HandleClearSlot(deps.Inventory))
			r.Post("/skip", handler.HandleSkipDose(deps.Dispenser, now))
		})
		r.Get("/logs", handler.HandleGetLogs(deps.Logs))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func isQuietPath(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Device query strings carry the patient email; only the path is logged above
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
