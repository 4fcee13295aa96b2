package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/services"

	"github.com/gin-gonic/gin"
)

type nopNotifier struct{}

func (nopNotifier) SendConfirmation(name, service, date, timeOfDay, phone string) error {
	return nil
}

// fakeGatewayServer answers the two MBWay endpoints the client calls.
func fakeGatewayServer(t *testing.T, status string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/pagamento/status/"):
			ref := strings.TrimPrefix(r.URL.Path, "/pagamento/status/")
			json.NewEncoder(w).Encode(services.PaymentStatus{Reference: ref, Status: status, Amount: 25})
		case r.URL.Path == "/pagamento/iniciar":
			json.NewEncoder(w).Encode(services.PaymentStatus{Status: "pending"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func paymentRouter(t *testing.T, gatewayURL string) *gin.Engine {
	t.Helper()
	t.Setenv("PAYMENT_GATEWAY_URL", gatewayURL)

	gateway := services.NewGatewayClient()
	pc := &PaymentController{
		Gateway:  gateway,
		Payments: services.NewPaymentService(config.DB, gateway, nopNotifier{}),
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/payments/status", pc.GetPaymentStatus)
	r.GET("/api/payments/status/:ref", pc.GetPaymentStatus)
	r.POST("/api/payments/callback", pc.PaymentCallback)
	return r
}

func TestGetPaymentStatus_MissingReference(t *testing.T) {
	setupTestDB(t)
	r := paymentRouter(t, fakeGatewayServer(t, "pending").URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payments/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a reference, got %d", w.Code)
	}
}

func TestGetPaymentStatus_ProxiesDespiteReconcileFailure(t *testing.T) {
	db := setupTestDB(t)
	r := paymentRouter(t, fakeGatewayServer(t, "paid").URL)

	// Break reconciliation's persistence without touching the gateway read.
	if err := db.Migrator().DropTable(&models.Appointment{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payments/status/ref-123", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status proxy must keep serving the read, got %d: %s", w.Code, w.Body.String())
	}
	var status services.PaymentStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Reference != "ref-123" || status.Status != "paid" {
		t.Fatalf("expected the gateway payload back, got %+v", status)
	}
}

func TestGetPaymentStatus_GatewayDown(t *testing.T) {
	setupTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	r := paymentRouter(t, srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payments/status/ref-123", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when the gateway errors, got %d", w.Code)
	}
}

func TestPaymentCallback_ConfirmsPendingAppointment(t *testing.T) {
	db := setupTestDB(t)
	r := paymentRouter(t, fakeGatewayServer(t, "pago").URL)

	appointment := models.Appointment{
		ServiceName: "manicure", CustomerName: "Maria", CustomerPhone: "912345678",
		Date: "2026-03-10", Time: "10:00", DurationMinutes: 30,
		Status: models.StatusPending, PaymentReference: "ref-777",
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback",
		strings.NewReader(`{"reference":"ref-777"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Appointment
	if err := db.First(&reloaded, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if reloaded.Status != models.StatusConfirmed {
		t.Fatalf("expected confirmed after a paid callback, got %s", reloaded.Status)
	}
}
