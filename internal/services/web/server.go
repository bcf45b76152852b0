package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/nestmap/internal/mapview"
	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/platform/timeouts"
	webapp "github.com/louisbranch/nestmap/internal/services/web/app"
	"github.com/louisbranch/nestmap/internal/services/web/integration/backend"
	"github.com/louisbranch/nestmap/internal/services/web/integration/cache"
	"github.com/louisbranch/nestmap/internal/services/web/modules"
	"github.com/louisbranch/nestmap/internal/services/web/platform/httpx"
	"github.com/louisbranch/nestmap/internal/services/web/platform/observability"
	"github.com/louisbranch/nestmap/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/nestmap/internal/services/web/platform/sessioncookie"
	webstatic "github.com/louisbranch/nestmap/internal/services/web/static"
	websqlite "github.com/louisbranch/nestmap/internal/services/web/storage/sqlite"
	"go.uber.org/zap"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr            string
	BackendURL          string
	BackendTimeout      time.Duration
	CacheDBPath         string
	OverlayCacheTTL     time.Duration
	ViewIdleTTL         time.Duration
	TrustForwardedProto bool
	Logger              *zap.Logger
}

// HandlerConfig carries the already-built dependencies of the root handler.
type HandlerConfig struct {
	Dependencies        modules.Dependencies
	RequestSchemePolicy requestmeta.SchemePolicy
	Logger              *zap.Logger
}

// Server hosts the web HTTP surface and the background loops it owns.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
	views      *mapview.Registry
	overlays   *cache.OverlayFetcher
	store      *websqlite.Store

	closeOnce sync.Once
}

// NewHandler composes modules, static assets and the middleware chain.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	logger := logging.OrNop(cfg.Logger)
	deps := cfg.Dependencies
	if deps.Logger == nil {
		deps.Logger = logger
	}
	registry := modules.Build(deps, modules.ModuleResolvers{
		ResolveVisitorID:    resolveVisitorID,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
	h, err := webapp.BuildRootHandler(webapp.Config{
		PublicModules:       registry.Public,
		ProtectedModules:    registry.Protected,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
	if err != nil {
		return nil, err
	}
	if degraded := modules.Degraded(modules.HealthReport(registry.All())); len(degraded) > 0 {
		logger.Warn("web modules degraded", zap.Strings("modules", degraded))
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(webstatic.FS))))
	rootMux.Handle("/", h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.RequestLogger(logger),
	), nil
}

func resolveVisitorID(r *http.Request) string {
	id, _ := sessioncookie.ReadVisitor(r)
	return id
}

// NewServer validates config, opens the overlay cache and constructs a server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := logging.OrNop(cfg.Logger)

	client, err := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	if err != nil {
		return nil, fmt.Errorf("init backend client: %w", err)
	}
	store, err := cache.OpenStore(cfg.CacheDBPath)
	if err != nil {
		return nil, err
	}
	fetcherCfg := cache.OverlayFetcherConfig{
		Source: client,
		TTL:    cfg.OverlayCacheTTL,
		Logger: logger.Named("overlay_cache"),
	}
	// A nil *Store must not become a non-nil interface.
	if store != nil {
		fetcherCfg.Store = store
	} else {
		logger.Info("overlay cache disabled")
	}
	overlays := cache.NewOverlayFetcher(fetcherCfg)
	views := mapview.NewRegistry(mapview.RegistryOptions{
		View: mapview.Options{
			Fetcher:      overlays,
			Logger:       logger.Named("mapview"),
			FetchTimeout: timeouts.OverlayFetch,
		},
		IdleTTL: cfg.ViewIdleTTL,
	})

	handler, err := NewHandler(HandlerConfig{
		Dependencies: modules.Dependencies{
			Properties:  client,
			Preferences: client,
			Views:       views,
			Logger:      logger,
		},
		RequestSchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Logger:              logger,
	})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger:   logger,
		views:    views,
		overlays: overlays,
		store:    store,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
// View sweeps and cache pruning run for as long as the server does.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	loopCtx, stopLoops := context.WithCancel(ctx)
	var loops sync.WaitGroup
	loops.Add(2)
	go func() {
		defer loops.Done()
		s.views.Run(loopCtx, 0)
	}()
	go func() {
		defer loops.Done()
		s.overlays.RunPruner(loopCtx, 0)
	}()
	defer func() {
		stopLoops()
		loops.Wait()
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info("web server listening", zap.String("addr", s.httpAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes the HTTP server, every open view and the cache store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.httpServer != nil {
			_ = s.httpServer.Close()
		}
		if s.views != nil {
			if open := s.views.Len(); open > 0 {
				s.logger.Info("closing map views", zap.Int("open", open))
			}
			s.views.CloseAll()
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				s.logger.Warn("close overlay cache", zap.Error(err))
			}
		}
	})
}
