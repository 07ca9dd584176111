package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/httpx"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/levels", h.listLevels)
	r.Get("/levels/{warehouseID}/{productID}", h.getLevel)
	r.Get("/low-stock", h.lowStock)
	r.Get("/movements", h.listMovements)
	r.Post("/adjustments", h.postAdjustment)
	r.Post("/transfers", h.postTransfer)
}

func (h *Handler) listLevels(w http.ResponseWriter, r *http.Request) {
	warehouseID, _ := strconv.ParseInt(r.URL.Query().Get("warehouse_id"), 10, 64)
	levels, err := h.service.Levels(r.Context(), warehouseID)
	if err != nil {
		h.logger.Error("list levels", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	if levels == nil {
		levels = []StockLevel{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": levels})
}

func (h *Handler) getLevel(w http.ResponseWriter, r *http.Request) {
	warehouseID, _ := strconv.ParseInt(chi.URLParam(r, "warehouseID"), 10, 64)
	productID, _ := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	lv, err := h.service.Level(r.Context(), warehouseID, productID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lv)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	warehouseID, _ := strconv.ParseInt(r.URL.Query().Get("warehouse_id"), 10, 64)
	levels, err := h.service.LowStock(r.Context(), warehouseID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	if levels == nil {
		levels = []StockLevel{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": levels})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := MovementFilter{Type: MovementType(q.Get("type"))}
	filter.WarehouseID, _ = strconv.ParseInt(q.Get("warehouse_id"), 10, 64)
	filter.ProductID, _ = strconv.ParseInt(q.Get("product_id"), 10, 64)
	if raw := q.Get("from"); raw != "" {
		filter.From, _ = time.Parse(time.RFC3339, raw)
	}
	if raw := q.Get("to"); raw != "" {
		filter.To, _ = time.Parse(time.RFC3339, raw)
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	movements, err := h.service.Movements(r.Context(), filter)
	if err != nil {
		h.logger.Error("list movements", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	if movements == nil {
		movements = []Movement{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": movements})
}

type adjustmentForm struct {
	Code        string  `json:"code"`
	WarehouseID int64   `json:"warehouse_id" validate:"required"`
	ProductID   int64   `json:"product_id" validate:"required"`
	Qty         float64 `json:"qty" validate:"required"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
	Note        string  `json:"note"`
}

func (h *Handler) postAdjustment(w http.ResponseWriter, r *http.Request) {
	var form adjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	movement, err := h.service.PostAdjustment(r.Context(), AdjustmentInput{
		Code:        form.Code,
		WarehouseID: form.WarehouseID,
		ProductID:   form.ProductID,
		Qty:         form.Qty,
		UnitCost:    form.UnitCost,
		Note:        form.Note,
		ActorID:     shared.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movement)
}

type transferForm struct {
	Code         string  `json:"code"`
	ProductID    int64   `json:"product_id" validate:"required"`
	Qty          float64 `json:"qty" validate:"required,gt=0"`
	SrcWarehouse int64   `json:"src_warehouse" validate:"required"`
	DstWarehouse int64   `json:"dst_warehouse" validate:"required"`
	Note         string  `json:"note"`
}

func (h *Handler) postTransfer(w http.ResponseWriter, r *http.Request) {
	var form transferForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, in, err := h.service.PostTransfer(r.Context(), TransferInput{
		Code:         form.Code,
		ProductID:    form.ProductID,
		Qty:          form.Qty,
		SrcWarehouse: form.SrcWarehouse,
		DstWarehouse: form.DstWarehouse,
		Note:         form.Note,
		ActorID:      shared.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"out": out, "in": in})
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidUnitCost):
		httpx.Problem(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, ErrNegativeStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient stock", err.Error())
	case errors.Is(err, ErrBalanceNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
