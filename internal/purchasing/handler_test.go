package purchasing

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
	svc := newTestService(newMemoryOrderRepo(), nil, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{SupplierID: 7, Lines: sampleLines()})
		require.NoError(t, err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(logger, svc).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?supplier_id=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items      []Order `json:"items"`
		Pagination struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
			Total   int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.PerPage)
	assert.Equal(t, 3, resp.Pagination.Total)
}
