package api

import (
	"blob-garden/internal/vis"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods used by the API.
// This interface enables mocking for tests without spinning up the full
// frame loop. Keep this minimal - only include methods the API layer
// actually calls.
type EngineInterface interface {
	// GetSnapshot returns the latest lock-free immutable frame snapshot
	GetSnapshot() *vis.FrameSnapshot
	// SetGenerators pushes external game state into the engine
	SetGenerators(records map[string]vis.GeneratorRecord, catalog map[string]string, currentLevel string, totalOutput float64)
	// ClickDown injects a press at screen coordinates
	ClickDown(x, y float64)
	// ClickUp releases the press
	ClickUp()
	// EntityCount returns the current simulation entity count
	EntityCount() int
	// Stats returns aggregate engine statistics
	Stats() map[string]interface{}
}

// RendererInterface defines the renderer methods used by the API.
type RendererInterface interface {
	// RenderPNG rasterizes a snapshot to an encoded PNG
	RenderPNG(snap *vis.FrameSnapshot) ([]byte, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine:   mockEngine,
//	    Renderer: mockRenderer,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the visual engine (required)
	Engine EngineInterface

	// Renderer rasterizes snapshots for the frame endpoint (optional;
	// if nil, GET /api/frame.png returns 404)
	Renderer RendererInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful
	// for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine   EngineInterface
	renderer RendererInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
	}

	r.Route("/api", func(r chi.Router) {
		// Frame state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/frame.png", h.handleFramePNG)

		// Click injection
		r.Post("/click/down", h.handleClickDown)
		r.Post("/click/up", h.handleClickUp)

		// External game-state push
		r.Post("/generators", h.handleSetGenerators)
	})

	return r
}
