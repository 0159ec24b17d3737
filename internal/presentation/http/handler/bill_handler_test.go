package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/application/service"
	"github.com/billstock/backend/internal/infrastructure/remote"
)

// testRouter wires the bill and customer handlers behind a stub auth
// middleware that injects a fixed user id.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mgr := service.NewStateManager(remote.NewMemoryStore(), false)
	billHandler := NewBillHandler(service.NewBillingService(mgr))
	customerHandler := NewCustomerHandler(service.NewCatalogService(mgr))

	ownerID := uuid.New()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", ownerID)
		c.Next()
	})

	r.POST("/bills", billHandler.Create)
	r.GET("/bills/queue", billHandler.Queue)
	r.GET("/bills/archive", billHandler.Archive)
	r.DELETE("/bills/queue/:id", billHandler.DeleteQueued)
	r.GET("/bills/:id", billHandler.Get)
	r.POST("/bills/:id/activate", billHandler.Activate)
	r.PUT("/bills/:id/rows", billHandler.UpdateRows)
	r.PUT("/bills/:id/customer", billHandler.SetCustomer)
	r.POST("/bills/:id/save", billHandler.Save)
	r.POST("/bills/:id/payments", billHandler.AddPayment)
	r.POST("/bills/:id/edit", billHandler.Edit)
	r.DELETE("/bills/:id", billHandler.Delete)
	r.GET("/sync/status", billHandler.SyncStatus)
	r.POST("/customers", customerHandler.Create)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", w.Body.String())
	return envelope.Data
}

func createBill(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/bills", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	bill := decodeData(t, w)["bill"].(map[string]interface{})
	return bill["id"].(string)
}

func TestBillLifecycleOverHTTP(t *testing.T) {
	r := testRouter(t)

	billID := createBill(t, r)

	// Fill rows.
	w := doJSON(t, r, http.MethodPut, "/bills/"+billID+"/rows", gin.H{
		"rows": []gin.H{{"name": "Rice", "price": "10", "qty": "2"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Save with an overpayment.
	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/save", gin.H{
		"payment": gin.H{"amount": 25, "mode": "cash"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	saved := decodeData(t, w)["bill"].(map[string]interface{})
	assert.Equal(t, 20.0, saved["total"])
	assert.Equal(t, 25.0, saved["paid"])
	assert.Equal(t, -5.0, saved["due"])
	assert.Equal(t, true, saved["settled"])

	// The queue is empty, the archive has one bill.
	w = doJSON(t, r, http.MethodGet, "/bills/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decodeData(t, w)
	assert.Empty(t, queue["bills"])

	w = doJSON(t, r, http.MethodGet, "/bills/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	archive := decodeData(t, w)
	assert.Len(t, archive["items"], 1)
}

func TestSaveRejectsBlankBill(t *testing.T) {
	r := testRouter(t)
	billID := createBill(t, r)

	w := doJSON(t, r, http.MethodPost, "/bills/"+billID+"/save", gin.H{
		"payment": gin.H{"amount": 10, "mode": "cash"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveRejectsMissingPaymentOnFirstSave(t *testing.T) {
	r := testRouter(t)
	billID := createBill(t, r)

	w := doJSON(t, r, http.MethodPut, "/bills/"+billID+"/rows", gin.H{
		"rows": []gin.H{{"name": "Rice", "price": "10", "qty": "1"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/save", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPaymentOverHTTP(t *testing.T) {
	r := testRouter(t)
	billID := createBill(t, r)

	w := doJSON(t, r, http.MethodPut, "/bills/"+billID+"/rows", gin.H{
		"rows": []gin.H{{"name": "Oil", "price": "140", "qty": "1"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/save", gin.H{
		"payment": gin.H{"amount": 100, "mode": "cash"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/payments", gin.H{
		"amount": 40, "mode": "upi", "note": "gpay",
	})
	require.Equal(t, http.StatusOK, w.Code)
	bill := decodeData(t, w)["bill"].(map[string]interface{})
	assert.Equal(t, 140.0, bill["paid"])
	assert.Equal(t, true, bill["settled"])

	// Validation failures surface as 400s.
	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/payments", gin.H{
		"amount": -1, "mode": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown bills surface as 404s.
	w = doJSON(t, r, http.MethodPost, "/bills/missing/payments", gin.H{
		"amount": 10, "mode": "cash",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditThenDeleteOverHTTP(t *testing.T) {
	r := testRouter(t)
	billID := createBill(t, r)

	w := doJSON(t, r, http.MethodPut, "/bills/"+billID+"/rows", gin.H{
		"rows": []gin.H{{"name": "Sugar", "price": "44", "qty": "1"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/save", gin.H{
		"payment": gin.H{"amount": 44, "mode": "cash"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/bills/"+billID+"/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reopened := decodeData(t, w)["bill"].(map[string]interface{})
	assert.Len(t, reopened["payments"], 1)

	w = doJSON(t, r, http.MethodDelete, "/bills/queue/"+billID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/bills/"+billID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetBillCustomerOverHTTP(t *testing.T) {
	r := testRouter(t)
	billID := createBill(t, r)

	w := doJSON(t, r, http.MethodPost, "/customers", gin.H{
		"fields": []gin.H{{"label": "Name", "value": "Asha"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customer := decodeData(t, w)["customer"].(map[string]interface{})
	customerID := customer["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/bills/"+billID+"/customer", gin.H{
		"customer_id": customerID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	bill := decodeData(t, w)["bill"].(map[string]interface{})
	assert.Equal(t, "Asha", bill["customerName"])
}

func TestSyncStatusEndpoint(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/sync/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["status"])
}

func TestActivateSwitchesActiveBill(t *testing.T) {
	r := testRouter(t)
	first := createBill(t, r)
	_ = createBill(t, r)

	w := doJSON(t, r, http.MethodPost, "/bills/"+first+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/bills/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decodeData(t, w)
	assert.Equal(t, first, queue["activeBillId"])
}
