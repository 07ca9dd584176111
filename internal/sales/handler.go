package sales

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
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

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}/lines", h.updateLines)
		r.Post("/{id}/confirm", h.confirm)
		r.Post("/{id}/hold", h.hold)
		r.Post("/{id}/complete", h.complete)
		r.Post("/{id}/cancel", h.cancel)
		r.Get("/{id}/receipt", h.receiptForOrder)
	})
	r.Get("/receipts/{id}", h.getReceipt)
}

type lineForm struct {
	ProductID       int64   `json:"product_id" validate:"required"`
	Qty             int64   `json:"qty" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

type orderForm struct {
	Number          string     `json:"number"`
	CustomerID      int64      `json:"customer_id" validate:"required"`
	WarehouseID     int64      `json:"warehouse_id" validate:"required"`
	Currency        string     `json:"currency"`
	DiscountPercent float64    `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      float64    `json:"tax_percent" validate:"gte=0,lte=100"`
	Note            string     `json:"note"`
	Lines           []lineForm `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form orderForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	input := CreateOrderInput{
		Number:          form.Number,
		CustomerID:      form.CustomerID,
		WarehouseID:     form.WarehouseID,
		Currency:        form.Currency,
		DiscountPercent: form.DiscountPercent,
		TaxPercent:      form.TaxPercent,
		Note:            form.Note,
		ActorID:         shared.ActorFromContext(r.Context()),
	}
	for _, l := range form.Lines {
		input.Lines = append(input.Lines, LineInput(l))
	}
	order, err := h.service.CreateOrder(r.Context(), input)
	if err != nil {
		h.logger.Error("create sales order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

type updateLinesForm struct {
	DiscountPercent float64    `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      float64    `json:"tax_percent" validate:"gte=0,lte=100"`
	Lines           []lineForm `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) updateLines(w http.ResponseWriter, r *http.Request) {
	var form updateLinesForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	input := UpdateLinesInput{
		OrderID:         pathID(r),
		DiscountPercent: form.DiscountPercent,
		TaxPercent:      form.TaxPercent,
		ActorID:         shared.ActorFromContext(r.Context()),
	}
	for _, l := range form.Lines {
		input.Lines = append(input.Lines, LineInput(l))
	}
	order, err := h.service.UpdateLines(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := shared.PageParams(q)
	filter := OrderFilter{Page: page, Limit: perPage, Status: Status(q.Get("status"))}
	filter.CustomerID, _ = strconv.ParseInt(q.Get("customer_id"), 10, 64)

	orders, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list sales orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	httpx.JSONList(w, orders, shared.NewPagination(page, perPage, int(total)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	order, lines, err := h.service.Get(r.Context(), pathID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"order": order, "lines": lines})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Confirm)
}

func (h *Handler) hold(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Hold)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Cancel)
}

func (h *Handler) statusChange(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, int64) error) {
	if err := fn(r.Context(), pathID(r), shared.ActorFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Complete(r.Context(), pathID(r), shared.ActorFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, inventory.ErrNegativeStock) {
			httpx.Problem(w, http.StatusConflict, "Insufficient stock", err.Error())
			return
		}
		h.logger.Error("complete sales order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Receipt(r.Context(), pathID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func (h *Handler) receiptForOrder(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.ReceiptForOrder(r.Context(), pathID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
