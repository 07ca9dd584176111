package uploads

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/httpx"
)

type Handler struct {
	logger *slog.Logger
	store  *Store
}

func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers upload routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/{name}", h.serve)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", "multipart field 'file' required")
		return
	}
	defer file.Close()

	stored, err := h.store.Save(r.Context(), file)
	if err != nil {
		h.logger.Error("save upload", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stored)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.Open(chi.URLParam(r, "name"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
