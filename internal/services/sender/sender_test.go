package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-booking/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock

	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	m.written = append(m.written, p...)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setupHappyPath(transport *MockTransport, recipient string) *MockSMTPWriter {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	transport.On("GetSMTPUser").Return("sender@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "sender@example.com").Return(nil).Once()
	mockClient.On("Rcpt", recipient).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
	return mockWriter
}

func TestSenderService_SendAppointmentConfirmation(t *testing.T) {
	body := []byte(`{
		"client_email": "anna@example.com",
		"client_name": "Анна",
		"business_name": "Beauty Studio",
		"service_name": "Стрижка",
		"date": "2026-09-10T14:00:00Z",
		"token": "token-abc"
	}`)

	transport := new(MockTransport)
	writer := setupHappyPath(transport, "anna@example.com")

	service := NewSenderService(transport, "https://salon.example.com/", newNoopLogger())
	err := service.SendAppointmentConfirmation(body)
	assert.NoError(t, err)

	// Обе ссылки несут один токен и разные действия.
	sent := string(writer.written)
	assert.Contains(t, sent, "https://salon.example.com/confirm?token=token-abc&action=confirm")
	assert.Contains(t, sent, "https://salon.example.com/confirm?token=token-abc&action=cancel")
	transport.AssertExpectations(t)
}

func TestSenderService_SendAppointmentConfirmation_InvalidJSON(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(transport, "https://salon.example.com", newNoopLogger())

	err := service.SendAppointmentConfirmation([]byte(`invalid json`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error unmarshalling message")
	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SendTrialExpiring(t *testing.T) {
	body := []byte(`{
		"email": "owner@example.com",
		"username": "owner",
		"business_name": "Beauty Studio",
		"trial_end_date": "2026-09-05T00:00:00Z"
	}`)

	transport := new(MockTransport)
	writer := setupHappyPath(transport, "owner@example.com")

	service := NewSenderService(transport, "https://salon.example.com", newNoopLogger())
	err := service.SendTrialExpiring(body)
	assert.NoError(t, err)
	assert.Contains(t, string(writer.written), "заканчивается 05.09.2026")
	transport.AssertExpectations(t)
}

func TestSenderService_SendTrialExpiring_ConnectionError(t *testing.T) {
	body := []byte(`{"email":"owner@example.com","username":"owner","business_name":"Beauty Studio","trial_end_date":"2026-09-05T00:00:00Z"}`)

	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("sender@example.com")
	transport.On("Connect").Return(nil, errors.New("connection error")).Once()

	service := NewSenderService(transport, "https://salon.example.com", newNoopLogger())
	err := service.SendTrialExpiring(body)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection error")
	transport.AssertExpectations(t)
}

func TestSenderService_SMTPErrorHandling(t *testing.T) {
	body := []byte(`{"client_email":"anna@example.com","client_name":"Анна","business_name":"Beauty Studio","service_name":"Стрижка","date":"2026-09-10T14:00:00Z","token":"token-abc"}`)

	tests := []struct {
		name         string
		setupMocks   func(*MockTransport)
		errorMessage string
	}{
		{
			name: "mail error",
			setupMocks: func(transport *MockTransport) {
				mockClient := new(MockSMTPClient)
				transport.On("GetSMTPUser").Return("sender@example.com")
				transport.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "sender@example.com").Return(errors.New("mail error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "mail error",
		},
		{
			name: "rcpt error",
			setupMocks: func(transport *MockTransport) {
				mockClient := new(MockSMTPClient)
				transport.On("GetSMTPUser").Return("sender@example.com")
				transport.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "sender@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "anna@example.com").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "rcpt error",
		},
		{
			name: "data error",
			setupMocks: func(transport *MockTransport) {
				mockClient := new(MockSMTPClient)
				transport.On("GetSMTPUser").Return("sender@example.com")
				transport.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "sender@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "anna@example.com").Return(nil).Once()
				mockClient.On("Data").Return(nil, errors.New("data error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			tt.setupMocks(transport)

			service := NewSenderService(transport, "https://salon.example.com", newNoopLogger())
			err := service.SendAppointmentConfirmation(body)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMessage)
			transport.AssertExpectations(t)
		})
	}
}
