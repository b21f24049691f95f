package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
)

// ProcessService defines registry operations needed over HTTP.
type ProcessService interface {
	Create(ctx context.Context, req process.CreateRequest) (*process.Process, error)
	Get(ctx context.Context, name string) (*process.Process, error)
	List(ctx context.Context) ([]process.Summary, error)
}

// Coordinator defines the namespace lifecycle operations needed over HTTP.
type Coordinator interface {
	UpdateProcess(ctx context.Context, name string, patch process.Patch) (*process.Process, *namespace.RenameReport, error)
	RetryRename(ctx context.Context, oldName, newName string) (*namespace.RenameReport, error)
	DeleteProcess(ctx context.Context, name string) (*namespace.DeleteReport, error)
}

// ListService defines list operations needed over HTTP.
type ListService interface {
	List(ctx context.Context, process string) ([]list.List, error)
	Create(ctx context.Context, process, title string) (*list.List, error)
	Update(ctx context.Context, process, id, title string) (*list.List, error)
	Delete(ctx context.Context, process, id string) (*list.DeleteResult, error)
}

// CardService defines card operations needed over HTTP.
type CardService interface {
	List(ctx context.Context, process string, opts card.ListOptions) ([]card.Card, error)
	Get(ctx context.Context, process, id string) (*card.Card, error)
	Create(ctx context.Context, process string, req card.CreateRequest) (*card.Card, error)
	Update(ctx context.Context, process, id string, patch card.Patch) (*card.Card, error)
	Delete(ctx context.Context, process, id string) (*card.Card, error)
}

// ChartService defines chart operations needed over HTTP.
type ChartService interface {
	List(ctx context.Context, process string) ([]chart.Chart, error)
	Create(ctx context.Context, process string, f chart.Fields) (*chart.Chart, error)
	Update(ctx context.Context, process, id string, patch chart.Patch) (*chart.Chart, error)
	Delete(ctx context.Context, process, id string) (*chart.Chart, error)
}

// Services contains the domain services behind the REST routes.
type Services struct {
	Processes   ProcessService
	Coordinator Coordinator
	Lists       ListService
	Cards       CardService
	Charts      ChartService
}

// Options mounts optional handlers next to the REST routes.
type Options struct {
	// MCP is served at /mcp when set.
	MCP http.Handler
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Route("/procesos", func(r chi.Router) {
		r.Post("/", srv.createProcess)
		r.Get("/", srv.listProcesses)

		r.Route("/{process}", func(r chi.Router) {
			r.Get("/", srv.getProcess)
			r.Put("/", srv.updateProcess)
			r.Delete("/", srv.deleteProcess)
			r.Post("/reconcile", srv.retryRename)

			r.Get("/lists", srv.listLists)
			r.Post("/lists", srv.createList)
			r.Put("/lists/{id}", srv.updateList)
			r.Delete("/lists/{id}", srv.deleteList)

			r.Get("/cards", srv.listCards)
			r.Post("/cards", srv.createCard)
			r.Get("/cards/{id}", srv.getCard)
			r.Put("/cards/{id}", srv.updateCard)
			r.Delete("/cards/{id}", srv.deleteCard)

			r.Get("/graficas", srv.listCharts)
			r.Post("/graficas", srv.createChart)
			r.Put("/graficas/{id}", srv.updateChart)
			r.Delete("/graficas/{id}", srv.deleteChart)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// RequestLogger logs each request at debug level with its status and latency.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
