// Package server exposes the restricted word store and the sanitizer over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NivBraz/contentfilter-service/internal/metrics"
	"github.com/NivBraz/contentfilter-service/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// WordStore is the restricted word storage the handlers use.
type WordStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, word string) (*models.RestrictedWord, error)
	Update(ctx context.Context, oldWord, newWord string) (*models.RestrictedWord, error)
	Delete(ctx context.Context, word string) (bool, error)
	Ping(ctx context.Context) error
}

// Sanitizer masks restricted words in text.
type Sanitizer interface {
	Sanitize(ctx context.Context, input string) (string, error)
}

type Options struct {
	Store     WordStore
	Sanitizer Sanitizer
	Metrics   *metrics.Metrics

	// RequestsPerSecond and Burst bound the whole server. Zero disables limiting.
	RequestsPerSecond int
	Burst             int
	AllowedOrigins    []string
}

type Server struct {
	store     WordStore
	sanitizer Sanitizer
	metrics   *metrics.Metrics
	limiter   *rate.Limiter
	router    chi.Router
}

func New(opts Options) *Server {
	s := &Server{
		store:     opts.Store,
		sanitizer: opts.Sanitizer,
		metrics:   opts.Metrics,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = opts.RequestsPerSecond
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		s.requestID,
		s.accessLog,
		s.recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}),
		s.observe,
		s.rateLimit,
	)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondWithError(w, req, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondWithError(w, req, http.StatusMethodNotAllowed, "Method not allowed")
	})

	for _, rt := range s.routes() {
		r.Method(rt.method, rt.pattern, rt.handler)
	}
	s.router = r
	return s
}

type route struct {
	method  string
	pattern string
	handler http.Handler
}

func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/api/sanitize", http.HandlerFunc(s.sanitize)},
		{http.MethodGet, "/api/restricted-words", http.HandlerFunc(s.listWords)},
		{http.MethodPost, "/api/restricted-words", http.HandlerFunc(s.addWord)},
		{http.MethodPut, "/api/restricted-words/{word}", http.HandlerFunc(s.updateWord)},
		{http.MethodDelete, "/api/restricted-words/{word}", http.HandlerFunc(s.deleteWord)},
		{http.MethodGet, "/api/healthz", http.HandlerFunc(s.healthz)},
		{http.MethodGet, "/metrics", s.metrics.Handler()},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the handler in an http.Server with the given timeouts.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * writeTimeout,
	}
}
