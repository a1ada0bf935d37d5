package http

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ghginventory/internal/cache"
	"ghginventory/internal/core"
	applog "ghginventory/internal/log"
	"ghginventory/internal/middleware/ratelimit"
	"ghginventory/internal/middleware/security"
	"ghginventory/internal/middleware/trace"
	appweb "ghginventory/web"
)

// Processor turns an uploaded activity table into a snapshot.
type Processor interface {
	Process(ctx context.Context, source string, r io.Reader) (core.Snapshot, error)
}

// Options configures the dashboard server.
type Options struct {
	Addr                string
	Title               string
	UploadMaxBytes      int64
	UploadRatePerMinute int
	ChartCacheSize      int
	ChartCacheTTL       time.Duration
}

// Server serves the inventory dashboard. It owns the active snapshot, which
// is replaced wholesale by successful uploads and never mutated.
type Server struct {
	http.Server
	opts      Options
	logger    *applog.Logger
	templates *template.Template
	processor Processor

	active atomic.Pointer[core.Snapshot]

	charts           *cache.LRUCache[[]byte]
	cacheManager     *cache.Manager
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	started         time.Time
	uploads         atomic.Int64
	uploadsRejected atomic.Int64
	chartRenders    atomic.Int64
	downloads       atomic.Int64
}

// NewServer configures routes and templates. initial may be nil, in which
// case the dashboard starts empty until the first upload.
func NewServer(opts Options, processor Processor, logger *applog.Logger, initial *core.Snapshot) *Server {
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = 10 << 20
	}
	if opts.Title == "" {
		opts.Title = "GHG Inventory"
	}
	if opts.ChartCacheSize <= 0 {
		opts.ChartCacheSize = 64
	}
	if opts.ChartCacheTTL <= 0 {
		opts.ChartCacheTTL = 10 * time.Minute
	}

	detector := security.NewDetector()
	s := &Server{
		opts:             opts,
		logger:           logger.WithComponent(applog.ComponentHTTP),
		processor:        processor,
		charts:           cache.NewLRUCache[[]byte](opts.ChartCacheSize, opts.ChartCacheTTL),
		cacheManager:     cache.NewManager(logger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{Limit: opts.UploadRatePerMinute, Window: time.Minute}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
		appMetrics:       &appMetrics{started: time.Now()},
	}
	if initial != nil {
		s.SetSnapshot(*initial)
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates",
			applog.FieldComponent, applog.ComponentTemplate,
			applog.FieldError, err)
	} else {
		s.templates = t
	}

	s.cacheManager.Register(s.charts)
	s.cacheManager.StartCleanup(opts.ChartCacheTTL)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		s.traceMiddleware.Middleware,
		s.securityDetector.Middleware(s.securityDetector.ExtractClientIP),
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
	)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.With(
		applog.ComponentMiddleware(applog.ComponentInventory),
		s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit),
	).Post("/upload", s.handleUpload)
	r.Get("/ui/summary", s.handleSummaryPartial)

	r.Group(func(r chi.Router) {
		r.Use(applog.ComponentMiddleware(applog.ComponentReport))
		r.Get("/charts/{kind}.png", s.handleChart)
		r.Get("/api/summary", s.handleAPISummary)
		r.Get("/download", s.handleDownload)
	})

	return r
}

// Snapshot returns the active snapshot, or nil before any summary exists.
func (s *Server) Snapshot() *core.Snapshot {
	return s.active.Load()
}

// SetSnapshot makes snap the active snapshot. Charts of the previous one age
// out of the cache on their own since keys carry the snapshot id.
func (s *Server) SetSnapshot(snap core.Snapshot) {
	s.active.Store(&snap)
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
