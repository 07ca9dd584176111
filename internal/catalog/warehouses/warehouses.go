// Package warehouses manages the warehouse registry stock records refer to.
package warehouses

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/httpx"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseForm is the create/update payload.
type WarehouseForm struct {
	Code    string `json:"code" validate:"required,max=32"`
	Name    string `json:"name" validate:"required,max=128"`
	Address string `json:"address" validate:"max=256"`
}

type Repository interface {
	List(ctx context.Context) ([]Warehouse, error)
	Get(ctx context.Context, id int64) (Warehouse, error)
	Create(ctx context.Context, wh Warehouse) (Warehouse, error)
	Update(ctx context.Context, id int64, wh Warehouse) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, address, created_at, updated_at FROM warehouses ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Warehouse
	for rows.Next() {
		var wh Warehouse
		if err := rows.Scan(&wh.ID, &wh.Code, &wh.Name, &wh.Address, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, wh)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Warehouse, error) {
	var wh Warehouse
	err := r.db.QueryRow(ctx, `SELECT id, code, name, address, created_at, updated_at FROM warehouses WHERE id = $1`, id).
		Scan(&wh.ID, &wh.Code, &wh.Name, &wh.Address, &wh.CreatedAt, &wh.UpdatedAt)
	if err != nil {
		return Warehouse{}, catshared.MapPgError(err)
	}
	return wh, nil
}

func (r *repository) Create(ctx context.Context, wh Warehouse) (Warehouse, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO warehouses (code, name, address, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		wh.Code, wh.Name, wh.Address, now, now).Scan(&wh.ID)
	if err != nil {
		return Warehouse{}, catshared.MapPgError(err)
	}
	wh.CreatedAt = now
	wh.UpdatedAt = now
	return wh, nil
}

func (r *repository) Update(ctx context.Context, id int64, wh Warehouse) error {
	tag, err := r.db.Exec(ctx, `UPDATE warehouses SET code = $1, name = $2, address = $3, updated_at = $4 WHERE id = $5`,
		wh.Code, wh.Name, wh.Address, time.Now(), id)
	if err != nil {
		return catshared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, wh Warehouse) (Warehouse, error) {
	if strings.TrimSpace(wh.Code) == "" {
		return Warehouse{}, shared.NewValidationError("code", "is required")
	}
	if strings.TrimSpace(wh.Name) == "" {
		return Warehouse{}, shared.NewValidationError("name", "is required")
	}
	return s.repo.Create(ctx, wh)
}

func (s *Service) Update(ctx context.Context, id int64, wh Warehouse) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	if strings.TrimSpace(wh.Code) == "" {
		return shared.NewValidationError("code", "is required")
	}
	return s.repo.Update(ctx, id, wh)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.NewValidationError("id", "must be positive")
	}
	return s.repo.Delete(ctx, id)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers warehouse routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/warehouses", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list warehouses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Warehouse{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	wh, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wh)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form WarehouseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	wh, err := h.service.Create(r.Context(), Warehouse{Code: form.Code, Name: form.Name, Address: form.Address})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, wh)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var form WarehouseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), id, Warehouse{Code: form.Code, Name: form.Name, Address: form.Address}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	wh, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wh)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
