// Package services содержит отправку почтовых уведомлений: писем
// подтверждения записи и писем об истекающем пробном периоде.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// SenderService читает сообщения из очередей уведомлений и отправляет письма.
type SenderService struct {
	transport     smtp.TransportInterface
	publicBaseURL string
	log           *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, publicBaseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:     transport,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// SendAppointmentConfirmation отправляет клиенту письмо со ссылками
// подтвердить или отменить запись. Обе ссылки несут один и тот же
// одноразовый токен.
func (s *SenderService) SendAppointmentConfirmation(body []byte) error {
	var message models.ConfirmationInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	confirmLink := fmt.Sprintf("%s/confirm?token=%s&action=%s",
		s.publicBaseURL, message.Token, models.ConfirmationActionConfirm)
	cancelLink := fmt.Sprintf("%s/confirm?token=%s&action=%s",
		s.publicBaseURL, message.Token, models.ConfirmationActionCancel)

	employeeLine := ""
	if message.EmployeeName != "" {
		employeeLine = fmt.Sprintf("\nМастер: %s.", message.EmployeeName)
	}

	to := []string{message.ClientEmail}
	subject := fmt.Sprintf("Подтвердите запись в %s", message.BusinessName)
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Вы записаны в %s на услугу «%s».
Дата и время визита: %s.%s

Пожалуйста, подтвердите визит: %s

Если планы изменились, отмените запись: %s

Ссылка действует до даты визита.`,
		message.ClientName, message.BusinessName, message.ServiceName,
		message.Date.Format("02.01.2006 15:04"), employeeLine, confirmLink, cancelLink)

	return s.sendEmail(to, subject, bodyText)
}

// SendTrialExpiring отправляет владельцу бизнеса письмо о том, что его
// пробный период заканчивается завтра.
func (s *SenderService) SendTrialExpiring(body []byte) error {
	var message models.TrialInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Ваш пробный период заканчивается завтра"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Пробный период для «%s» заканчивается %s.
Чтобы не потерять доступ к записи клиентов, оплатите подписку: %s/billing

После окончания пробного периода страница записи станет недоступна.`,
		message.Username, message.BusinessName,
		message.TrialEndDate.Format("02.01.2006"), s.publicBaseURL)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
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
