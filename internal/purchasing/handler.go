package purchasing

import (
	"context"
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

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}/lines", h.updateLines)
		r.Post("/{id}/submit", h.submit)
		r.Post("/{id}/approve", h.approve)
		r.Post("/{id}/receive", h.receive)
		r.Post("/{id}/cancel", h.cancel)
		r.Post("/{id}/invoices", h.createInvoice)
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/outstanding", h.outstanding)
		r.Get("/{id}", h.getInvoice)
		r.Post("/{id}/payments", h.registerPayment)
	})
}

type lineForm struct {
	ProductID       int64   `json:"product_id" validate:"required"`
	Qty             int64   `json:"qty" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

type orderForm struct {
	Number          string     `json:"number"`
	SupplierID      int64      `json:"supplier_id" validate:"required"`
	Currency        string     `json:"currency"`
	ExpectedDate    *time.Time `json:"expected_date"`
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
		SupplierID:      form.SupplierID,
		Currency:        form.Currency,
		DiscountPercent: form.DiscountPercent,
		TaxPercent:      form.TaxPercent,
		Note:            form.Note,
		ActorID:         shared.ActorFromContext(r.Context()),
	}
	if form.ExpectedDate != nil {
		input.ExpectedDate = *form.ExpectedDate
	}
	for _, l := range form.Lines {
		input.Lines = append(input.Lines, LineInput(l))
	}
	order, err := h.service.CreateOrder(r.Context(), input)
	if err != nil {
		h.logger.Error("create purchase order", slog.Any("error", err))
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
	filter.SupplierID, _ = strconv.ParseInt(q.Get("supplier_id"), 10, 64)

	orders, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list purchase orders", slog.Any("error", err))
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

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Submit)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.service.Approve)
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

type receiveForm struct {
	WarehouseID int64 `json:"warehouse_id" validate:"required"`
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var form receiveForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	err := h.service.Receive(r.Context(), ReceiveOrderInput{
		OrderID:     pathID(r),
		WarehouseID: form.WarehouseID,
		ActorID:     shared.ActorFromContext(r.Context()),
	})
	if err != nil {
		h.logger.Error("receive purchase order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type invoiceForm struct {
	Number string     `json:"number"`
	DueAt  *time.Time `json:"due_at"`
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var form invoiceForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	input := InvoiceInput{OrderID: pathID(r), Number: form.Number}
	if form.DueAt != nil {
		input.DueAt = *form.DueAt
	}
	inv, err := h.service.CreateInvoice(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Invoice(r.Context(), pathID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) outstanding(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	invoices, err := h.service.Outstanding(r.Context(), supplierID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invoices})
}

type paymentForm struct {
	Number string  `json:"number"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) registerPayment(w http.ResponseWriter, r *http.Request) {
	var form paymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	if err := shared.Validate.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	payment, err := h.service.RegisterPayment(r.Context(), PaymentInput{
		InvoiceID: pathID(r),
		Number:    form.Number,
		Amount:    form.Amount,
		ActorID:   shared.ActorFromContext(r.Context()),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
