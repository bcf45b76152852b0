// Package web parses web command flags and starts the browser-facing service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/nestmap/internal/platform/cmd"
	"github.com/louisbranch/nestmap/internal/platform/logging"
	"github.com/louisbranch/nestmap/internal/platform/otel"
	"github.com/louisbranch/nestmap/internal/services/web"
	"go.uber.org/zap"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"NESTMAP_WEB_HTTP_ADDR" envDefault:"localhost:8090"`
	BackendURL          string        `env:"NESTMAP_WEB_BACKEND_URL" envDefault:"http://localhost:8080"`
	BackendTimeout      time.Duration `env:"NESTMAP_WEB_BACKEND_TIMEOUT" envDefault:"2s"`
	CacheDBPath         string        `env:"NESTMAP_WEB_CACHE_DB_PATH" envDefault:"data/web-cache.db"`
	OverlayCacheTTL     time.Duration `env:"NESTMAP_WEB_OVERLAY_CACHE_TTL" envDefault:"10m"`
	ViewIdleTTL         time.Duration `env:"NESTMAP_WEB_VIEW_IDLE_TTL" envDefault:"30m"`
	TrustForwardedProto bool          `env:"NESTMAP_WEB_TRUST_FORWARDED_PROTO"`

	Log       logging.Settings
	Telemetry otel.Settings
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Backend REST API base URL")
	fs.DurationVar(&cfg.BackendTimeout, "backend-timeout", cfg.BackendTimeout, "Timeout for one backend request")
	fs.StringVar(&cfg.CacheDBPath, "cache-db-path", cfg.CacheDBPath, "Overlay cache SQLite path (empty disables the cache)")
	fs.DurationVar(&cfg.OverlayCacheTTL, "overlay-cache-ttl", cfg.OverlayCacheTTL, "How long cached overlay payloads stay fresh")
	fs.DurationVar(&cfg.ViewIdleTTL, "view-idle-ttl", cfg.ViewIdleTTL, "Idle time after which an open map view is closed")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for same-origin checks")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format (json, console)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web service and blocks until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(entrypoint.ServiceWeb, cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{
		Telemetry: cfg.Telemetry,
		Logger:    logger,
	}, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			BackendURL:          cfg.BackendURL,
			BackendTimeout:      cfg.BackendTimeout,
			CacheDBPath:         cfg.CacheDBPath,
			OverlayCacheTTL:     cfg.OverlayCacheTTL,
			ViewIdleTTL:         cfg.ViewIdleTTL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			Logger:              logger,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		logger.Info("web server stopped", zap.String("addr", cfg.HTTPAddr))
		return nil
	})
}
