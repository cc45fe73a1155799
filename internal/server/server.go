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

	"github.com/novakeep/stakevault/internal/database"
	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/handler"
	"github.com/novakeep/stakevault/internal/logger"
	"github.com/novakeep/stakevault/internal/metrics"
	"github.com/novakeep/stakevault/internal/skills"
	"github.com/novakeep/stakevault/internal/staking"
	"github.com/novakeep/stakevault/internal/telemetry"
)

// APIKeys carries the three caller tiers. Admin and Authority fall back to
// Client at config time, so single-key deployments still work.
type APIKeys struct {
	Client    string // depositors and read endpoints
	Admin     string // lifecycle and treasury controls
	Authority string // the external skills authority
}

// All returns every configured key for the outer authentication gate.
func (k APIKeys) All() []string {
	return []string{k.Client, k.Admin, k.Authority}
}

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	stakingService staking.Service
	skillsService  skills.Service
}

// NewServer creates a new Server instance
func NewServer(port int, keys APIKeys, trustedProxies []string, dbPool database.Pool, stakingService staking.Service, skillsService skills.Service, eventlogService eventlog.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(keys.All(), trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(telemetry.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Custody routes
		stakingHandler := handler.NewStakingHandler(stakingService)
		r.Route("/stake", func(r chi.Router) {
			r.Post("/deposit", stakingHandler.HandleDeposit)
			r.Post("/withdraw", stakingHandler.HandleWithdraw)
			r.Post("/withdraw-all", stakingHandler.HandleWithdrawAll)
			r.Post("/compound", stakingHandler.HandleCompound)
			r.Get("/rewards", stakingHandler.HandleGetRewards)
			r.Get("/account", stakingHandler.HandleGetAccount)
		})
		r.Get("/pool", stakingHandler.HandleGetPool)

		// Skills authority routes. Only the pre-registered authority key may
		// mutate grants or rarities.
		skillsHandler := handler.NewSkillsHandler(skillsService)
		r.Route("/skills", func(r chi.Router) {
			r.Use(RequireKeyMiddleware(keys.Authority, trustedProxies, detector))
			r.Post("/activate", skillsHandler.HandleActivate)
			r.Post("/deactivate", skillsHandler.HandleDeactivate)
			r.Post("/rarity", skillsHandler.HandleSetRarity)
			r.Get("/profile", skillsHandler.HandleGetProfile)
		})

		// Admin routes
		adminHandler := handler.NewAdminHandler(stakingService)
		adminCacheHandler := handler.NewAdminCacheHandler(skillsService)
		adminEventsHandler := handler.NewAdminEventsHandler(eventlogService)
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireKeyMiddleware(keys.Admin, trustedProxies, detector))
			r.Post("/pause", adminHandler.HandlePause)
			r.Post("/unpause", adminHandler.HandleUnpause)
			r.Post("/treasury", adminHandler.HandleSetTreasury)
			r.Post("/migrate", adminHandler.HandleMigrate)
			r.Get("/events", adminEventsHandler.HandleGetEvents)

			r.Route("/reserve", func(r chi.Router) {
				r.Post("/fund", adminHandler.HandleFundReserve)
			})

			// Admin cache routes
			r.Route("/cache", func(r chi.Router) {
				r.Get("/stats", adminCacheHandler.HandleGetCacheStats)
			})
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:         dbPool,
		stakingService: stakingService,
		skillsService:  skillsService,
	}
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
		statusCode:     http.StatusOK, // default status
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

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
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
