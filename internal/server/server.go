package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mauriceverhoeven/zoneos/internal/api"
	"github.com/mauriceverhoeven/zoneos/internal/config"
	"github.com/mauriceverhoeven/zoneos/internal/controller"
	"github.com/mauriceverhoeven/zoneos/internal/discovery"
	"github.com/mauriceverhoeven/zoneos/internal/favorites"
	"github.com/mauriceverhoeven/zoneos/internal/groups"
	"github.com/mauriceverhoeven/zoneos/internal/playback"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/sonos/soap"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs all incoming HTTP requests
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// Options controls server wiring.
type Options struct {
	// Controller, when set, replaces the discovery-backed controller.
	// Tests use this to run the full HTTP surface against fakes.
	Controller *controller.Controller
}

// NewHandler builds the HTTP handler. Speaker discovery runs inline, so
// this blocks for the discovery window on startup.
func NewHandler(ctx context.Context, cfg config.Config, options Options) (http.Handler, error) {
	ctrl := options.Controller
	if ctrl == nil {
		built, err := bootstrap(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ctrl = built
	}

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(requestLoggerMiddleware)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RecovererMiddleware)

	registerHealthRoutes(router)
	controller.RegisterRoutes(router, ctrl)

	// The control UI, a static page polling the /api surface.
	router.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	return router, nil
}

// bootstrap discovers speakers and assembles the managers. A failed
// discovery is fatal; there is nothing useful to serve without speakers.
func bootstrap(ctx context.Context, cfg config.Config) (*controller.Controller, error) {
	soapClient := soap.NewClient(time.Duration(cfg.SonosTimeoutMs) * time.Millisecond)
	soapTimeout := time.Duration(cfg.SonosTimeoutMs) * time.Millisecond

	source := func(ctx context.Context) ([]sonos.Player, error) {
		devices, err := discovery.Run(ctx, discovery.Options{
			Passes:       cfg.SSDPPasses,
			PassInterval: time.Duration(cfg.SSDPPassIntervalMs) * time.Millisecond,
			Timeout:      time.Duration(cfg.DiscoveryTimeoutSec) * time.Second,
			StaticIPs:    cfg.StaticDeviceIPs,
		})
		if err != nil {
			return nil, err
		}
		players := make([]sonos.Player, 0, len(devices))
		for _, device := range devices {
			players = append(players, sonos.NewDevice(device.RoomName, device.UDN, device.IP, soapClient, soapTimeout))
		}
		return players, nil
	}

	registry := speakers.NewRegistry()
	if err := registry.Discover(ctx, source); err != nil {
		return nil, err
	}
	log.Printf("registry ready with %d speakers", len(registry.List()))

	cache := favorites.NewCache(registry)
	if _, err := cache.Refresh(ctx); err != nil {
		// Favorites come back on the next manual refresh; not fatal.
		log.Printf("initial favorites refresh failed: %v", err)
	}

	groupManager := groups.NewManager(registry)
	if cfg.AutoGroup {
		if err := groupManager.Initialize(ctx); err != nil {
			log.Printf("group initialization failed: %v", err)
		}
	}

	facade := playback.NewFacade(registry, cache, groupManager)
	return controller.New(registry, cache, groupManager, facade), nil
}

func registerHealthRoutes(router chi.Router) {
	router.Method(http.MethodGet, "/api/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		response := map[string]any{
			"status":    "healthy",
			"service":   "zoneos",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		return api.WriteJSON(w, http.StatusOK, response)
	}))
}
