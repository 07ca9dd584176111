package sales

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdersPagination(t *testing.T) {
	svc := newTestService(newMemorySalesRepo(), &stubInventory{}, nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
		require.NoError(t, err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(logger, svc).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?customer_id=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items      []Order `json:"items"`
		Pagination struct {
			Page  int `json:"page"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 2, resp.Pagination.Total)
}
