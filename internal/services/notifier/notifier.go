// Package services содержит отправку писем пользователям: уведомление
// об окончании premium-подписки из очереди и письмо восстановления пароля.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/lib/smtp"
	"github.com/medx-platform/medx-api/internal/models"
)

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPremiumExpired обрабатывает сообщение premium.expired из очереди
// и отправляет письмо об окончании подписки.
func (s *SenderService) SendPremiumExpired(body []byte) error {
	var message models.UserNotification
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	s.log.Info("processing premium expiry notification",
		slog.String("event_id", message.EventID),
		slog.String("user_uid", message.UID))

	subject := "Ваша premium-подписка MED-X закончилась"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nСрок вашей premium-подписки на платформе MED-X истёк: premium-материалы больше недоступны.\n\nЧтобы вернуть доступ, продлите подписку в личном кабинете.",
		message.Username)

	return s.sendEmail(message.Email, subject, bodyText)
}

// SendPasswordReset отправляет письмо с токеном восстановления пароля.
func (s *SenderService) SendPasswordReset(email, username, token string) error {
	subject := "Восстановление пароля MED-X"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВы запросили восстановление пароля. Используйте этот код в приложении:\n\n%s\n\nЕсли вы не запрашивали восстановление, просто проигнорируйте письмо.",
		username, token)

	return s.sendEmail(email, subject, bodyText)
}

func (s *SenderService) sendEmail(to, subject, bodyText string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.transport.GetSMTPUser()),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		s.log.Error("failed to set recipient", sl.Err(err))
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("failed to close write closer: %w", err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}
