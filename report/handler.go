package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/httpx"
	"github.com/Shafin5714/stock-craftsman-16-sub000/jobs"
)

// Handler serves rendered documents.
type Handler struct {
	renderer  *Renderer
	client    *jobs.Client
	outputDir string
	logger    *slog.Logger
}

// NewHandler constructs Handler. client may be nil; statement rendering then
// runs inline only.
func NewHandler(renderer *Renderer, client *jobs.Client, outputDir string, logger *slog.Logger) *Handler {
	return &Handler{renderer: renderer, client: client, outputDir: outputDir, logger: logger}
}

// MountRoutes attaches report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/receipts/{id}", h.receipt)
	r.Get("/statements/{supplierID}", h.statement)
	r.Post("/statements/{supplierID}", h.enqueueStatement)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	data, err := h.renderer.RenderReceipt(r.Context(), id)
	if err != nil {
		h.logger.Error("render receipt", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	servePDF(w, fmt.Sprintf("receipt-%d.pdf", id), data)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseInt(chi.URLParam(r, "supplierID"), 10, 64)
	data, err := h.renderer.RenderStatement(r.Context(), supplierID)
	if err != nil {
		h.logger.Error("render statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	servePDF(w, fmt.Sprintf("statement-%d.pdf", supplierID), data)
}

func (h *Handler) enqueueStatement(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseInt(chi.URLParam(r, "supplierID"), 10, 64)
	if h.client == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue unavailable", "background rendering is not configured")
		return
	}
	path := filepath.Join(h.outputDir, fmt.Sprintf("statement-%d-%d.pdf", supplierID, time.Now().Unix()))
	_, err := h.client.EnqueueStatementRender(r.Context(), jobs.StatementRenderPayload{
		SupplierID: supplierID,
		OutputPath: path,
	})
	if err != nil {
		h.logger.Error("enqueue statement render", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"path": path})
}

func servePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
