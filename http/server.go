package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/wikiscrape"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// Service identity reported by the informational endpoints.
const (
	ServiceName    = "Wikipedia Scraper API"
	ServiceVersion = "1.0.0"
)

// MaxBatchSize is the largest number of URLs accepted by one batch request.
const MaxBatchSize = 50

// DefaultRequestTimeout bounds how long a single API request may run.
const DefaultRequestTimeout = 2 * time.Minute

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestBody caps the size of JSON request bodies.
const maxRequestBody = 1 << 20

// Server exposes a wikiscrape.Scraper as a JSON API.
type Server struct {
	ln      net.Listener
	server  *http.Server
	router  chi.Router
	scraper wikiscrape.Scraper

	logger         *slog.Logger
	allowedOrigins []string
	requestTimeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for request logs and internal errors.
// Defaults to discarding.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithRequestTimeout sets the per-request timeout.
// Defaults to DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// NewServer creates a Server that routes requests to scraper.
func NewServer(scraper wikiscrape.Scraper, opts ...ServerOption) *Server {
	s := &Server{
		scraper:        scraper,
		logger:         slog.New(slog.DiscardHandler),
		allowedOrigins: []string{"*"},
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/scrape", s.handleScrape)
	r.Post("/scrape/batch", s.handleScrapeBatch)

	s.router = r
	s.server = &http.Server{Handler: r}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on addr and serves requests in the background.
func (s *Server) Open(addr string) (err error) {
	if s.ln, err = net.Listen("tcp", addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()

	return nil
}

// Addr returns the listening address, or "" before Open.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close gracefully shuts down the server, waiting up to ShutdownTimeout
// for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// optionFlags are the optional extraction switches of a request body.
// Omitted flags take wikiscrape.DefaultOptions.
type optionFlags struct {
	IncludeMetadata *bool `json:"include_metadata"`
	IncludeLinks    *bool `json:"include_links"`
	IncludeImages   *bool `json:"include_images"`
	IncludeTables   *bool `json:"include_tables"`
}

func (f optionFlags) options() wikiscrape.Options {
	opts := wikiscrape.DefaultOptions()
	if f.IncludeMetadata != nil {
		opts.IncludeMetadata = *f.IncludeMetadata
	}
	if f.IncludeLinks != nil {
		opts.IncludeLinks = *f.IncludeLinks
	}
	if f.IncludeImages != nil {
		opts.IncludeImages = *f.IncludeImages
	}
	if f.IncludeTables != nil {
		opts.IncludeTables = *f.IncludeTables
	}
	return opts
}

type scrapeRequest struct {
	URL string `json:"url"`
	optionFlags
}

type batchRequest struct {
	URLs []string `json:"urls"`
	optionFlags
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": ServiceName,
		"version": ServiceVersion,
		"endpoints": map[string]string{
			"GET /":              "API information",
			"GET /health":        "Health check",
			"POST /scrape":       "Scrape Wikipedia page content",
			"POST /scrape/batch": "Scrape several Wikipedia pages",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.scraper.Scrape(r.Context(), req.URL, req.options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScrapeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	switch {
	case len(req.URLs) == 0:
		s.writeError(w, r, wikiscrape.Errorf(wikiscrape.EINVALID, "At least one URL is required"))
		return
	case len(req.URLs) > MaxBatchSize:
		s.writeError(w, r, wikiscrape.Errorf(wikiscrape.EINVALID, "At most %d URLs are allowed per batch", MaxBatchSize))
		return
	}

	// A batch cut short still reports what finished; URLs that never ran
	// come back as failed items.
	items, err := s.scraper.ScrapeAll(r.Context(), req.URLs, req.options(), nil)
	if err != nil && items == nil {
		s.writeError(w, r, err)
		return
	}
	if err != nil {
		s.logger.Warn("batch interrupted",
			"urls", len(req.URLs),
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}

	s.writeJSON(w, http.StatusOK, items)
}

// decodeJSON reads a size-limited JSON body into v. Malformed bodies are
// reported as EINVALID.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v); err != nil {
		return wikiscrape.Errorf(wikiscrape.EINVALID, "Invalid request body: %v", err)
	}
	return nil
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	switch code {
	case wikiscrape.EINVALID:
		return http.StatusBadRequest
	case wikiscrape.ENOTFOUND, wikiscrape.EPARSE:
		return http.StatusUnprocessableEntity
	case wikiscrape.EFETCH:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"detail": message}. Internal errors are logged
// and their details hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := wikiscrape.ErrorCode(err)
	if code == wikiscrape.EINTERNAL {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	s.writeJSON(w, ErrorStatusCode(code), map[string]string{
		"detail": wikiscrape.ErrorMessage(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
// The ID is stored under chi's request ID key so middleware.GetReqID
// finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests logs one line per request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
