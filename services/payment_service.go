// services/payment_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"podocare-backend/models"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the gateway's view of one MBWay charge.
type PaymentStatus struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
}

type InitiateRequest struct {
	Reference string  `json:"reference"`
	Phone     string  `json:"phone"`
	Amount    float64 `json:"amount"`
}

// GatewayClient talks to the MBWay payment backend over HTTP.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGatewayClient() *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimRight(os.Getenv("PAYMENT_GATEWAY_URL"), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GatewayClient) Initiate(ctx context.Context, in InitiateRequest) (*PaymentStatus, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/pagamento/iniciar", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return g.do(req)
}

func (g *GatewayClient) Status(ctx context.Context, reference string) (*PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/pagamento/status/"+reference, nil)
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

func (g *GatewayClient) do(req *http.Request) (*PaymentStatus, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}

	var status PaymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("payment gateway response: %w", err)
	}
	return &status, nil
}

// PaymentGateway is the slice of the gateway that reconciliation needs.
type PaymentGateway interface {
	Status(ctx context.Context, reference string) (*PaymentStatus, error)
}

// ConfirmationSender dispatches a booking confirmation. Implemented by
// NotificationService.
type ConfirmationSender interface {
	SendConfirmation(name, service, date, timeOfDay, phone string) error
}

type auditSink interface {
	Record(entity, entityID, action, performer string, payload map[string]interface{})
}

// appointmentStore is the persistence slice used by reconciliation. The
// pending->confirmed transition is a conditional UPDATE so concurrent
// webhook and poll deliveries cannot both claim it.
type appointmentStore interface {
	FindByReference(reference string) (*models.Appointment, error)
	ConfirmIfPending(reference string) (bool, error)
	ListPendingReferences() ([]string, error)
	CancelPendingBefore(cutoff time.Time) (int64, error)
}

type gormAppointmentStore struct {
	db *gorm.DB
}

func (g *gormAppointmentStore) FindByReference(reference string) (*models.Appointment, error) {
	var appt models.Appointment
	err := g.db.Where("payment_reference = ?", reference).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (g *gormAppointmentStore) ConfirmIfPending(reference string) (bool, error) {
	res := g.db.Model(&models.Appointment{}).
		Where("payment_reference = ? AND status = ?", reference, models.StatusPending).
		Update("status", models.StatusConfirmed)
	return res.RowsAffected > 0, res.Error
}

func (g *gormAppointmentStore) ListPendingReferences() ([]string, error) {
	var refs []string
	err := g.db.Model(&models.Appointment{}).
		Where("status = ? AND payment_reference <> ''", models.StatusPending).
		Pluck("payment_reference", &refs).Error
	return refs, err
}

func (g *gormAppointmentStore) CancelPendingBefore(cutoff time.Time) (int64, error) {
	res := g.db.Model(&models.Appointment{}).
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Update("status", models.StatusCancelled)
	return res.RowsAffected, res.Error
}

// PaymentService aligns appointment status with gateway truth.
type PaymentService struct {
	store    appointmentStore
	gateway  PaymentGateway
	notifier ConfirmationSender
	audit    auditSink
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, notifier ConfirmationSender) *PaymentService {
	return &PaymentService{
		store:    &gormAppointmentStore{db: db},
		gateway:  gateway,
		notifier: notifier,
		audit:    NewAuditRecorder(db),
	}
}

// paid statuses the gateway may report, case-insensitive
func isPaid(status string) bool {
	switch strings.ToLower(status) {
	case "paid", "pago", "success":
		return true
	}
	return false
}

// Reconcile fetches the gateway status for reference and applies it.
func (s *PaymentService) Reconcile(ctx context.Context, reference string) error {
	status, err := s.gateway.Status(ctx, reference)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", reference, err)
	}
	return s.Apply(reference, status.Status)
}

// Apply transitions the referenced appointment pending->confirmed when the
// gateway reports it paid. Confirmed, completed and cancelled appointments
// are left alone, so repeated webhooks and polls are no-ops. The
// confirmation notification is fire-and-forget: its failure is logged and
// never propagated.
func (s *PaymentService) Apply(reference, gatewayStatus string) error {
	if !isPaid(gatewayStatus) {
		return nil
	}

	appt, err := s.store.FindByReference(reference)
	if err != nil {
		return fmt.Errorf("apply %s: %w", reference, err)
	}
	if appt == nil {
		log.Printf("payment %s reported paid but no appointment references it", reference)
		return nil
	}

	confirmed, err := s.store.ConfirmIfPending(reference)
	if err != nil {
		return fmt.Errorf("apply %s: %w", reference, err)
	}
	if !confirmed {
		// Already confirmed, completed or cancelled.
		return nil
	}

	if s.audit != nil {
		s.audit.Record("appointment", appt.ID.String(), "confirm", "payment-gateway", map[string]interface{}{
			"reference": reference,
			"from":      models.StatusPending,
			"to":        models.StatusConfirmed,
		})
	}

	go func() {
		if err := s.notifier.SendConfirmation(appt.CustomerName, appt.ServiceName, appt.Date, appt.Time, appt.CustomerPhone); err != nil {
			log.Printf("confirmation for %s failed: %v", reference, err)
		}
	}()

	return nil
}

// PollPending reconciles every pending appointment that carries a payment
// reference. Run from the background scheduler.
func (s *PaymentService) PollPending() {
	refs, err := s.store.ListPendingReferences()
	if err != nil {
		log.Printf("payment poll: failed to list pending references: %v", err)
		return
	}
	for _, ref := range refs {
		if err := s.Reconcile(context.Background(), ref); err != nil {
			log.Printf("payment poll: %v", err)
		}
	}
}

// CancelStale cancels pending appointments older than PENDING_TTL_HOURS
// (default 48). Run from the background scheduler.
func (s *PaymentService) CancelStale() {
	ttl := 48
	if v := os.Getenv("PENDING_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			ttl = h
		}
	}

	cutoff := time.Now().Add(-time.Duration(ttl) * time.Hour)
	n, err := s.store.CancelPendingBefore(cutoff)
	if err != nil {
		log.Printf("stale cancel: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cancelled %d stale pending appointments", n)
		if s.audit != nil {
			s.audit.Record("appointment", "", "auto_cancel", "scheduler", map[string]interface{}{
				"count":  n,
				"cutoff": cutoff.UTC().Format(time.RFC3339),
			})
		}
	}
}
