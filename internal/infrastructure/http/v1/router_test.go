package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemanager/internal/core/apperror"
	v1 "storagemanager/internal/infrastructure/http/v1"
	"storagemanager/internal/infrastructure/export"
	"storagemanager/internal/infrastructure/metrics"
	"storagemanager/internal/services"
	"storagemanager/pkg/logger"
)

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New(metrics.DefaultConfig())
	svc, _ := services.NewInMemory(m, logger.NewNop())
	router := v1.NewRouter(v1.RouterConfig{
		Services: svc,
		Logger:   logger.NewNop(),
		Metrics:  m,
	})
	return &api{t: t, router: router}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *api) decode(rec *httptest.ResponseRecorder, out any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func (a *api) create(path string, body any) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		ID string `json:"id"`
	}
	a.decode(rec, &out)
	return out.ID
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Code
}

type balanceRow struct {
	ResourceName string `json:"resourceName"`
	MeasureName  string `json:"measureName"`
	Amount       int64  `json:"amount"`
}

func (a *api) balances(query string) []balanceRow {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/v1/registers/balances"+query, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []balanceRow
	a.decode(rec, &rows)
	return rows
}

func TestRouter_DocumentFlow(t *testing.T) {
	a := newAPI(t)

	bolt := a.create("/api/v1/catalog/resources", map[string]any{"name": "Bolt"})
	pcs := a.create("/api/v1/catalog/measures", map[string]any{"name": "pcs"})
	acme := a.create("/api/v1/catalog/clients", map[string]any{"name": "Acme", "address": "1 Main St"})

	a.create("/api/v1/document/receipts", map[string]any{
		"number": "REC-1",
		"date":   "2025-01-10T00:00:00Z",
		"lines":  []map[string]any{{"resourceId": bolt, "measureId": pcs, "amount": 50}},
	})

	rows := a.balances("")
	require.Len(t, rows, 1)
	assert.Equal(t, balanceRow{ResourceName: "Bolt", MeasureName: "pcs", Amount: 50}, rows[0])

	shipID := a.create("/api/v1/document/shipments", map[string]any{
		"number":   "SHIP-1",
		"date":     "2025-01-11T00:00:00Z",
		"clientId": acme,
		"lines":    []map[string]any{{"resourceId": bolt, "measureId": pcs, "amount": 20}},
	})
	assert.Equal(t, int64(50), a.balances("")[0].Amount, "unsigned shipment must not move stock")

	rec := a.do(http.MethodPut, "/api/v1/document/shipments/"+shipID, map[string]any{
		"number":   "SHIP-1",
		"date":     "2025-01-11T00:00:00Z",
		"clientId": acme,
		"signed":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ship struct {
		Signed     bool   `json:"signed"`
		ClientName string `json:"clientName"`
		Lines      []struct {
			ID     string `json:"id"`
			Amount int64  `json:"amount"`
		} `json:"lines"`
	}
	a.decode(rec, &ship)
	assert.True(t, ship.Signed)
	assert.Equal(t, "Acme", ship.ClientName)
	require.Len(t, ship.Lines, 1)
	assert.Equal(t, int64(30), a.balances("")[0].Amount)

	t.Run("OverdrawIsUnprocessable", func(t *testing.T) {
		rec := a.do(http.MethodPut, "/api/v1/document/shipments/"+shipID, map[string]any{
			"number":   "SHIP-1",
			"date":     "2025-01-11T00:00:00Z",
			"clientId": acme,
			"signed":   true,
			"updateLines": []map[string]any{
				{"id": ship.Lines[0].ID, "resourceId": bolt, "measureId": pcs, "amount": 60},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, apperror.CodeNegativeBalance, errorCode(t, rec))
		assert.Equal(t, int64(30), a.balances("")[0].Amount)
	})

	t.Run("ReferencedResourceIsLocked", func(t *testing.T) {
		rec := a.do(http.MethodDelete, "/api/v1/catalog/resources/"+bolt, nil)
		assert.Equal(t, http.StatusLocked, rec.Code)
		assert.Equal(t, apperror.CodeEntityInUse, errorCode(t, rec))
	})

	t.Run("ListFilters", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/document/shipments?clientId="+acme+"&number=SHIP", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var docs []map[string]any
		a.decode(rec, &docs)
		assert.Len(t, docs, 1)

		rec = a.do(http.MethodGet, "/api/v1/document/receipts?from=2025-02-01", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		a.decode(rec, &docs)
		assert.Empty(t, docs)

		rec = a.do(http.MethodGet, "/api/v1/document/receipts/numbers", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var numbers []string
		a.decode(rec, &numbers)
		assert.Equal(t, []string{"REC-1"}, numbers)
	})

	t.Run("Export", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/registers/balances/export?resourceId="+bolt, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "balances_")
		assert.NotZero(t, rec.Body.Len())
	})
}

func TestRouter_EmptyShipmentIsPreconditionFailed(t *testing.T) {
	a := newAPI(t)
	acme := a.create("/api/v1/catalog/clients", map[string]any{"name": "Acme", "address": "1 Main St"})

	rec := a.do(http.MethodPost, "/api/v1/document/shipments", map[string]any{
		"number":   "SHIP-1",
		"date":     "2025-01-11T00:00:00Z",
		"clientId": acme,
	})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, apperror.CodeEmptyShipment, errorCode(t, rec))
}

func TestRouter_CatalogLifecycle(t *testing.T) {
	a := newAPI(t)
	kg := a.create("/api/v1/catalog/measures", map[string]any{"name": "kg"})

	rec := a.do(http.MethodPost, "/api/v1/catalog/measures", map[string]any{"name": "kg"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/catalog/measures/"+kg+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var archived []map[string]any
	a.decode(a.do(http.MethodGet, "/api/v1/catalog/measures/archived", nil), &archived)
	require.Len(t, archived, 1)
	assert.Equal(t, "kg", archived[0]["name"])

	rec = a.do(http.MethodPut, "/api/v1/catalog/measures/"+kg, map[string]any{"name": "kilogram"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodDelete, "/api/v1/catalog/measures/"+kg, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/catalog/measures/"+kg, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RequestErrors(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"MalformedID", http.MethodGet, "/api/v1/catalog/resources/not-a-uuid", nil, http.StatusBadRequest},
		{"MissingName", http.MethodPost, "/api/v1/catalog/resources", map[string]any{}, http.StatusBadRequest},
		{"MalformedFilterID", http.MethodGet, "/api/v1/registers/balances?measureId=x", nil, http.StatusBadRequest},
		{"MalformedDate", http.MethodGet, "/api/v1/document/receipts?to=yesterday", nil, http.StatusBadRequest},
		{"UnknownDocument", http.MethodGet, "/api/v1/document/receipts/0190c3a1-0000-7000-8000-000000000000", nil, http.StatusNotFound},
		{"UnknownRoute", http.MethodGet, "/api/v1/nowhere", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "in-memory")

	a.do(http.MethodGet, "/health/live", nil)

	rec = a.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/health/live"`)
}
