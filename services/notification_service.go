// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotificationService sends booking confirmations and contact-form relays
// via Twilio. Dispatch is best-effort everywhere: callers log failures and
// move on.
type NotificationService struct {
	client      *twilio.RestClient
	clinicPhone string
}

func NewNotificationService() *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		clinicPhone: os.Getenv("CLINIC_PHONE"),
	}
}

// SendConfirmation tells the customer their appointment is confirmed.
func (s *NotificationService) SendConfirmation(name, service, date, timeOfDay, phone string) error {
	message := fmt.Sprintf(
		"Olá %s! A sua marcação de %s no dia %s às %s está confirmada. Até breve!",
		name, service, date, timeOfDay,
	)
	return s.send(phone, message)
}

// SendContactMessage relays a contact-form submission to the clinic.
func (s *NotificationService) SendContactMessage(name, email, message string) error {
	if s.clinicPhone == "" {
		return fmt.Errorf("CLINIC_PHONE not set")
	}
	body := fmt.Sprintf("Contacto do site: %s (%s)\n%s", name, email, message)
	return s.send(s.clinicPhone, body)
}

func (s *NotificationService) send(phone, body string) error {
	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	to := phone

	// Use WhatsApp if phone is in E.164 format and starts with '+'
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", phone)
	}
	return nil
}
