package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/api/handler"
	apimw "github.com/itemhub/item-service/internal/api/middleware"
	"github.com/itemhub/item-service/internal/service"
)

// Deps is everything the HTTP surface needs from main.
type Deps struct {
	Service  *service.ItemService
	Pool     handler.PoolStats
	DB       handler.Pinger // nil skips the database health check
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)           // recover panics, return 500
	r.Use(chimw.RealIP)              // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(d.Logger))

	ih := handler.NewItemHandler(d.Service, d.Logger)
	mh := handler.NewMetricsHandler(d.Pool)
	hh := handler.NewHealthHandler(d.DB)

	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", ih.List)
			r.Post("/", ih.Create)

			// /process must be registered before /{id} so chi does not
			// treat the literal string "process" as an ID.
			r.Get("/process", ih.Process)
			r.Post("/process", ih.Process)

			r.Get("/{id}", ih.GetByID)
			r.Put("/{id}", ih.Update)
			r.Delete("/{id}", ih.Delete)
		})

		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
