package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kavin-Nithil/inventory-svc/internal/dto"
	"github.com/Kavin-Nithil/inventory-svc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine lets each test script the engine's behavior per operation.
type stubEngine struct {
	reserveResp *dto.ReserveResponse
	reserveErr  error
	releaseResp *dto.ReleaseResponse
	releaseErr  error
	rows        []dto.AvailabilityRow
}

func (s *stubEngine) Reserve(_ context.Context, _ dto.ReserveRequest) (*dto.ReserveResponse, error) {
	return s.reserveResp, s.reserveErr
}

func (s *stubEngine) Release(_ context.Context, _ string) (*dto.ReleaseResponse, error) {
	return s.releaseResp, s.releaseErr
}

func (s *stubEngine) GetAvailability(_ context.Context, _, _ string) ([]dto.AvailabilityRow, error) {
	return s.rows, nil
}

func (s *stubEngine) SweepOnce(_ context.Context) (int, error) { return 0, nil }

func newTestRouter(svc service.ReservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInventoryHandler(svc)
	r.POST("/v1/inventory/reserve", h.Reserve)
	r.POST("/v1/inventory/release", h.Release)
	r.GET("/v1/inventory/availability", h.Availability)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReserveEndpointCreated(t *testing.T) {
	expires := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	engine := &stubEngine{reserveResp: &dto.ReserveResponse{
		ReservationID: "res-123", ExpiresAt: expires, Quantity: 3,
	}}
	r := newTestRouter(engine)

	w := doJSON(t, r, http.MethodPost, "/v1/inventory/reserve",
		`{"product_sku":"WIDGET-001","warehouse_code":"NYC","quantity":3}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ReserveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "res-123", resp.ReservationID)
	assert.Equal(t, 3, resp.Quantity)
}

func TestReserveEndpointValidation(t *testing.T) {
	r := newTestRouter(&stubEngine{})

	// missing required fields
	w := doJSON(t, r, http.MethodPost, "/v1/inventory/reserve", `{"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// malformed JSON
	w = doJSON(t, r, http.MethodPost, "/v1/inventory/reserve", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"insufficient", &service.InsufficientStockError{Available: 1, Requested: 5}, http.StatusConflict},
		{"invalid timeout", service.ErrInvalidTimeout, http.StatusBadRequest},
		{"unavailable", service.ErrUnavailable, http.StatusServiceUnavailable},
		{"internal", service.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubEngine{reserveErr: tc.err})
			w := doJSON(t, r, http.MethodPost, "/v1/inventory/reserve",
				`{"product_sku":"WIDGET-001","warehouse_code":"NYC","quantity":5}`)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestReleaseEndpoint(t *testing.T) {
	releasedAt := time.Date(2024, 6, 1, 12, 45, 0, 0, time.UTC)
	engine := &stubEngine{releaseResp: &dto.ReleaseResponse{
		ReservationID: "res-123", ReleasedAt: releasedAt,
	}}
	r := newTestRouter(engine)

	w := doJSON(t, r, http.MethodPost, "/v1/inventory/release", `{"reservation_id":"res-123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ReleaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "res-123", resp.ReservationID)
}

func TestReleaseEndpointNotActive(t *testing.T) {
	engine := &stubEngine{releaseErr: &service.NotActiveError{ReservationID: "res-123", Status: "released"}}
	r := newTestRouter(engine)

	w := doJSON(t, r, http.MethodPost, "/v1/inventory/release", `{"reservation_id":"res-123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not active")
}

func TestAvailabilityEndpoint(t *testing.T) {
	engine := &stubEngine{rows: []dto.AvailabilityRow{
		{ProductSku: "WIDGET-001", WarehouseCode: "NYC", OnHand: 10, Reserved: 4, Available: 6},
	}}
	r := newTestRouter(engine)

	w := doJSON(t, r, http.MethodGet, "/v1/inventory/availability?product_sku=WIDGET-001", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []dto.AvailabilityRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Available)

	// product_sku is required
	w = doJSON(t, r, http.MethodGet, "/v1/inventory/availability", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityEndpointEmptyList(t *testing.T) {
	r := newTestRouter(&stubEngine{})
	w := doJSON(t, r, http.MethodGet, "/v1/inventory/availability?product_sku=UNKNOWN", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
