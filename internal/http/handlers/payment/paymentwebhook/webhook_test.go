package paymentwebhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-booking/internal/models"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

const testSecret = "test-webhook-secret"

type MockService struct {
	mock.Mock
}

func (m *MockService) OnPaymentApproved(ctx context.Context, payment models.Payment) (time.Time, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(time.Time), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	succeededBody := `{
		"event": "payment.succeeded",
		"object": {
			"id": "pay-123",
			"status": "succeeded",
			"amount": {"value": "990.00", "currency": "RUB"},
			"metadata": {"user_uid": "uid-1", "plan_type": "pro", "billing_type": "monthly"}
		}
	}`

	tests := []struct {
		name       string
		body       string
		signature  string
		setupMocks func(*MockService)
		wantStatus int
	}{
		{
			name:      "success",
			body:      succeededBody,
			signature: sign(succeededBody),
			setupMocks: func(s *MockService) {
				s.On("OnPaymentApproved", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
					return p.UserUID == "uid-1" &&
						p.ProviderPaymentID == "pay-123" &&
						p.Plan == "pro" &&
						p.Billing == "monthly" &&
						p.AmountValue == "990.00" &&
						p.AmountCurrency == "RUB"
				})).Return(time.Now().Add(30*24*time.Hour), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing signature",
			body:       succeededBody,
			signature:  "",
			setupMocks: func(_ *MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signature",
			body:       succeededBody,
			signature:  sign("another body"),
			setupMocks: func(_ *MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid json",
			body:       `not a json`,
			signature:  sign(`not a json`),
			setupMocks: func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "other event is acknowledged and ignored",
			body:       `{"event": "payment.canceled", "object": {"id": "pay-9"}}`,
			signature:  sign(`{"event": "payment.canceled", "object": {"id": "pay-9"}}`),
			setupMocks: func(_ *MockService) {},
			wantStatus: http.StatusOK,
		},
		{
			name:      "duplicate delivery still returns 200",
			body:      succeededBody,
			signature: sign(succeededBody),
			setupMocks: func(s *MockService) {
				s.On("OnPaymentApproved", mock.Anything, mock.Anything).
					Return(time.Time{}, repository.ErrDuplicatePayment).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:      "processing error still returns 200",
			body:      succeededBody,
			signature: sign(succeededBody),
			setupMocks: func(s *MockService) {
				s.On("OnPaymentApproved", mock.Anything, mock.Anything).
					Return(time.Time{}, errors.New("db down")).Once()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			handler := New(newNoopLogger(), service, testSecret)

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
				bytes.NewBufferString(tt.body))
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
