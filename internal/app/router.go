package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/customers"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/products"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/suppliers"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/warehouses"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/observability"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/purchasing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/sales"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/uploads"
	"github.com/Shafin5714/stock-craftsman-16-sub000/jobs"
	"github.com/Shafin5714/stock-craftsman-16-sub000/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ProductHandler    *products.Handler
	SupplierHandler   *suppliers.Handler
	CustomerHandler   *customers.Handler
	WarehouseHandler  *warehouses.Handler
	InventoryHandler  *inventory.Handler
	PurchasingHandler *purchasing.Handler
	SalesHandler      *sales.Handler
	UploadHandler     *uploads.Handler
	ReportHandler     *report.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router serving the dashboard API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if params.ProductHandler != nil {
			params.ProductHandler.MountRoutes(r)
		}
		if params.SupplierHandler != nil {
			params.SupplierHandler.MountRoutes(r)
		}
		if params.CustomerHandler != nil {
			params.CustomerHandler.MountRoutes(r)
		}
		if params.WarehouseHandler != nil {
			params.WarehouseHandler.MountRoutes(r)
		}
		if params.InventoryHandler != nil {
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
		}
		if params.PurchasingHandler != nil {
			r.Route("/purchasing", params.PurchasingHandler.MountRoutes)
		}
		if params.SalesHandler != nil {
			r.Route("/sales", params.SalesHandler.MountRoutes)
		}
		if params.UploadHandler != nil {
			r.Route("/uploads", params.UploadHandler.MountRoutes)
		}
		if params.ReportHandler != nil {
			r.Route("/reports", params.ReportHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
