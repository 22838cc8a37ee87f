// Package notifier отправляет письма о предоставленном доступе.
// Сообщения приходят из очереди уведомлений от обработчика webhook-событий.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/lib/smtp"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

// Service отправляет уведомления по событиям доступа.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создаёт новый Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendAccessGranted разбирает событие из очереди и отправляет покупателю
// письмо с датой окончания доступа.
func (s *Service) SendAccessGranted(body []byte) error {
	const op = "notifier.SendAccessGranted"

	var event models.AccessGrantedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if event.CustomerEmail == "" {
		s.log.Warn("access granted event without email, skipping",
			slog.String("user_id", event.UserID))
		return nil
	}

	subject := "Your lease analysis access is active"
	bodyText := fmt.Sprintf(
		"Hello!\n\nYour payment was received and full lease analysis access is now active.\n\nAccess expires on %s.\n\nThank you for using TenantLease.",
		event.ExpiresAt.Format("02 Jan 2006"))

	return s.sendEmail([]string{event.CustomerEmail}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
