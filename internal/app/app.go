package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/NivBraz/contentfilter-service/internal/config"
	"github.com/NivBraz/contentfilter-service/internal/filter"
	"github.com/NivBraz/contentfilter-service/internal/metrics"
	"github.com/NivBraz/contentfilter-service/internal/server"
	"github.com/NivBraz/contentfilter-service/internal/store"
	"github.com/NivBraz/contentfilter-service/pkg/fetcher"
	"github.com/NivBraz/contentfilter-service/pkg/parser"
	"github.com/NivBraz/contentfilter-service/pkg/sanitizer"

	"github.com/schollz/progressbar/v3"
	"xorm.io/xorm"
)

// App represents the main application
type App struct {
	config  *config.Config
	engine  *xorm.Engine
	cache   store.Cache
	store   *store.Store
	metrics *metrics.Metrics
	server  *server.Server

	// progress receives the seeding progress bar.
	progress io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithProgressWriter sends the seeding progress bar to w instead of stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(a *App) {
		a.progress = w
	}
}

// New creates a new instance of the application: storage, cache, sanitizer and HTTP
// handler, with the configured word bank seeded into storage.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		config:   cfg,
		metrics:  metrics.New(),
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	engine, err := store.NewEngine(store.EngineConfig{
		Type:         cfg.Database.Type,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		ShowSQL:      cfg.Database.ShowSQL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.engine = engine

	cache, err := newCache(initCtx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	a.cache = cache

	a.store = store.New(store.NewXormRepository(engine), cache, a.metrics)

	san, err := sanitizer.New(cfg.Sanitizer.PatternCacheSize, cfg.MaskRune())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize sanitizer: %w", err)
	}

	a.server = server.New(server.Options{
		Store:             a.store,
		Sanitizer:         filter.New(a.store, san, a.metrics),
		Metrics:           a.metrics,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
	})

	if err := a.seed(initCtx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize word bank: %w", err)
	}

	return a, nil
}

func newCache(ctx context.Context, cfg *config.Config) (store.Cache, error) {
	if cfg.Cache.Type != "redis" {
		return store.NewMemoryCache(), nil
	}
	return store.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.Key, time.Duration(cfg.Cache.TTL)*time.Second)
}

// seed stores the word bank file contents and, when configured, the remote word list.
func (a *App) seed(ctx context.Context) error {
	words := append([]string(nil), a.config.SeedWords...)

	if a.config.WordBank.URL != "" {
		remote, err := a.fetchWordBank(ctx, a.config.WordBank.URL)
		if err != nil {
			return err
		}
		words = append(words, remote...)
	}
	if len(words) == 0 {
		return nil
	}

	bar := progressbar.NewOptions(len(words),
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription("Seeding restricted words..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	created, err := a.store.Seed(ctx, words, func() { bar.Add(1) })
	bar.Finish()
	if err != nil {
		return err
	}

	slog.Info("Word bank seeded", "words", len(words), "created", created)
	return nil
}

func (a *App) fetchWordBank(ctx context.Context, url string) ([]string, error) {
	f := fetcher.New(fetcher.FetcherConfig{
		RequestsPerSecond: a.config.HTTPClient.RequestsPerSecond,
		Burst:             a.config.HTTPClient.Burst,
		Timeout:           time.Duration(a.config.HTTPClient.Timeout) * time.Second,
		UserAgent:         a.config.HTTPClient.UserAgent,
		MaxRetries:        a.config.HTTPClient.MaxRetries,
		InitialBackoff:    time.Duration(a.config.HTTPClient.RetryDelay) * time.Second,
	})

	content, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word bank: %w", err)
	}

	words, err := parser.New().Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse word bank: %w", err)
	}
	return words, nil
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.server
}

// Run serves HTTP on the configured address until ctx is done, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Server.Address, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := a.server.HTTPServer(a.config.Server.Address,
		time.Duration(a.config.Server.ReadTimeout)*time.Second,
		time.Duration(a.config.Server.WriteTimeout)*time.Second)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Content filter service listening", "address", ln.Addr().String())
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.config.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases storage and cache connections.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.cache.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
	}
	return errors.Join(errs...)
}
