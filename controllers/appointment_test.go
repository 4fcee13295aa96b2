package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"podocare-backend/config"
	"podocare-backend/models"

	"github.com/gin-gonic/gin"
)

func appointmentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/api/appointments/:id", UpdateAppointmentStatus)
	return r
}

func seedAppointment(t *testing.T, phone, date, timeOfDay, status string) models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		ServiceName: "manicure", CustomerName: "Maria", CustomerPhone: phone,
		Date: date, Time: timeOfDay, DurationMinutes: 30, Status: status,
	}
	if err := config.DB.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return appointment
}

func putStatus(r *gin.Engine, id, status string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/appointments/"+id,
		strings.NewReader(`{"status":"`+status+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateAppointmentStatus_Cancel(t *testing.T) {
	setupTestDB(t)
	r := appointmentRouter()
	appointment := seedAppointment(t, "912345678", "2026-03-10", "10:00", models.StatusPending)

	w := putStatus(r, appointment.ID.String(), models.StatusCancelled)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Appointment
	if err := config.DB.First(&reloaded, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if reloaded.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", reloaded.Status)
	}
}

func TestUpdateAppointmentStatus_InvalidStatus(t *testing.T) {
	setupTestDB(t)
	r := appointmentRouter()
	appointment := seedAppointment(t, "912345678", "2026-03-10", "10:00", models.StatusPending)

	if w := putStatus(r, appointment.ID.String(), "archived"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestUpdateAppointmentStatus_ReinstateIntoOccupiedSlot(t *testing.T) {
	setupTestDB(t)
	r := appointmentRouter()

	cancelled := seedAppointment(t, "912345678", "2026-03-10", "10:00", models.StatusCancelled)
	seedAppointment(t, "934567890", "2026-03-10", "10:00", models.StatusPending)

	// Un-cancelling collides with the booking that took the freed slot.
	w := putStatus(r, cancelled.ID.String(), models.StatusPending)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 reinstating into an occupied slot, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Appointment
	if err := config.DB.First(&reloaded, "id = ?", cancelled.ID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if reloaded.Status != models.StatusCancelled {
		t.Fatalf("failed transition must not persist, got %s", reloaded.Status)
	}
}
