package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/salon-booking/internal/migrations"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("salon"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

func TestStorage_ApplyPaymentApproved_StacksBeforeExpiry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	trialStart := time.Now().UTC().AddDate(0, 0, -9)
	trialEnd := time.Now().UTC().AddDate(0, 0, 5)
	factory.CreateUserWithTrial(t, userUID, "owner", "owner@example.com", "owner-salon",
		trialStart, trialEnd, true, false, models.SubscriptionStatusTrial)

	payment := models.Payment{
		UserUID:           userUID,
		ProviderPaymentID: uuid.New().String(),
		Plan:              "basic",
		Billing:           "monthly",
		AmountValue:       "990.00",
		AmountCurrency:    "RUB",
	}
	newEnd, err := storage.ApplyPaymentApproved(context.Background(), payment, 30)
	require.NoError(t, err)

	// Оплата до истечения: остаток складывается с длительностью тарифа.
	assert.WithinDuration(t, trialEnd.AddDate(0, 0, 30), newEnd, time.Second)

	user, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, user.SubscriptionStatus)
	assert.Equal(t, "basic", user.SubscriptionPlan)
	assert.Equal(t, "monthly", user.SubscriptionBilling)
	assert.False(t, user.TrialExpirationNotified)
}

func TestStorage_ApplyPaymentApproved_RestartsAfterExpiry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	trialStart := time.Now().UTC().AddDate(0, 0, -15)
	trialEnd := time.Now().UTC().AddDate(0, 0, -1)
	factory.CreateUserWithTrial(t, userUID, "owner", "owner@example.com", "owner-salon",
		trialStart, trialEnd, true, true, models.SubscriptionStatusTrial)

	payment := models.Payment{
		UserUID:           userUID,
		ProviderPaymentID: uuid.New().String(),
		Plan:              "basic",
		Billing:           "monthly",
	}
	newEnd, err := storage.ApplyPaymentApproved(context.Background(), payment, 30)
	require.NoError(t, err)

	// Оплата после истечения: отсчет заново от текущего момента.
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), newEnd, time.Minute)
}

func TestStorage_ApplyPaymentApproved_DuplicateWebhook(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	trialStart := time.Now().UTC().AddDate(0, 0, -1)
	trialEnd := time.Now().UTC().AddDate(0, 0, 13)
	factory.CreateUserWithTrial(t, userUID, "owner", "owner@example.com", "owner-salon",
		trialStart, trialEnd, true, false, models.SubscriptionStatusTrial)

	payment := models.Payment{
		UserUID:           userUID,
		ProviderPaymentID: "provider-payment-1",
		Plan:              "basic",
		Billing:           "monthly",
	}
	firstEnd, err := storage.ApplyPaymentApproved(context.Background(), payment, 30)
	require.NoError(t, err)

	_, err = storage.ApplyPaymentApproved(context.Background(), payment, 30)
	require.ErrorIs(t, err, ErrDuplicatePayment)

	user, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	require.NotNil(t, user.TrialEndDate)
	assert.WithinDuration(t, firstEnd, *user.TrialEndDate, time.Second)

	payments, err := storage.ListPayments(context.Background(), userUID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestStorage_ConsumeConfirmationToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "owner", "owner@example.com", "hashedpassword", "user", "owner-salon")
	serviceID := factory.CreateService(t, userUID, "Haircut", 1500, 60)
	employeeID := factory.CreateEmployee(t, userUID, "Maria", "maria@example.com")
	date := time.Now().UTC().Add(60 * time.Hour)
	appointmentID := factory.CreateAppointment(t, userUID, serviceID, &employeeID, date, models.AppointmentStatusPending)

	issued, err := storage.IssueConfirmationToken(context.Background(), appointmentID, "token-abc", date.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, issued)

	snapshot, err := storage.ConsumeConfirmationToken(context.Background(), "token-abc",
		models.AppointmentStatusConfirmed, true)
	require.NoError(t, err)
	assert.Equal(t, appointmentID, snapshot.ID)
	assert.Equal(t, models.AppointmentStatusConfirmed, snapshot.Status)
	assert.Equal(t, "Haircut", snapshot.ServiceName)
	assert.Equal(t, "Maria", snapshot.EmployeeName)

	// Токен одноразовый: повторное использование неотличимо от несуществующего.
	_, err = storage.ConsumeConfirmationToken(context.Background(), "token-abc",
		models.AppointmentStatusConfirmed, true)
	require.ErrorIs(t, err, ErrNotFound)

	appointment, err := storage.GetAppointment(context.Background(), appointmentID, userUID)
	require.NoError(t, err)
	assert.Nil(t, appointment.ConfirmationToken)
	assert.Nil(t, appointment.ConfirmationTokenExpiry)
	assert.True(t, appointment.ConfirmedByClient)
}

func TestStorage_ConsumeConfirmationToken_Expired(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "owner", "owner@example.com", "hashedpassword", "user", "owner-salon")
	serviceID := factory.CreateService(t, userUID, "Haircut", 1500, 60)
	appointmentID := factory.CreateAppointment(t, userUID, serviceID, nil,
		time.Now().UTC().Add(-2*time.Hour), models.AppointmentStatusPending)

	_, err := storage.DB.Exec(`UPDATE appointments
		SET confirmation_token = 'token-expired',
		    confirmation_token_expiry = now() - INTERVAL '1 hour',
		    confirmation_email_sent_at = now()
		WHERE id = $1`, appointmentID)
	require.NoError(t, err)

	_, err = storage.ConsumeConfirmationToken(context.Background(), "token-expired",
		models.AppointmentStatusCancelled, false)
	require.ErrorIs(t, err, ErrNotFound)

	appointment, err := storage.GetAppointment(context.Background(), appointmentID, userUID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusPending, appointment.Status)
	assert.NotNil(t, appointment.ConfirmationToken)
}

func TestStorage_IssueConfirmationToken_Idempotent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "owner", "owner@example.com", "hashedpassword", "user", "owner-salon")
	serviceID := factory.CreateService(t, userUID, "Manicure", 2000, 90)
	date := time.Now().UTC().Add(60 * time.Hour)
	appointmentID := factory.CreateAppointment(t, userUID, serviceID, nil, date, models.AppointmentStatusPending)

	issued, err := storage.IssueConfirmationToken(context.Background(), appointmentID, "token-1", date.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, issued)

	issued, err = storage.IssueConfirmationToken(context.Background(), appointmentID, "token-2", date.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, issued)

	appointment, err := storage.GetAppointment(context.Background(), appointmentID, userUID)
	require.NoError(t, err)
	require.NotNil(t, appointment.ConfirmationToken)
	assert.Equal(t, "token-1", *appointment.ConfirmationToken)
}

func TestStorage_FindAppointmentsPendingConfirmation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "owner", "owner@example.com", "hashedpassword", "user", "owner-salon")
	serviceID := factory.CreateService(t, userUID, "Haircut", 1500, 60)

	now := time.Now().UTC()
	inWindow := factory.CreateAppointment(t, userUID, serviceID, nil, now.Add(60*time.Hour), models.AppointmentStatusPending)
	factory.CreateAppointment(t, userUID, serviceID, nil, now.Add(10*time.Hour), models.AppointmentStatusPending)
	factory.CreateAppointment(t, userUID, serviceID, nil, now.Add(100*time.Hour), models.AppointmentStatusPending)
	factory.CreateAppointment(t, userUID, serviceID, nil, now.Add(60*time.Hour), models.AppointmentStatusCancelled)

	pending, err := storage.FindAppointmentsPendingConfirmation(context.Background(),
		now.Add(48*time.Hour), now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, inWindow, pending[0].AppointmentID)
	assert.Equal(t, "client@example.com", pending[0].ClientEmail)
	assert.Equal(t, "Haircut", pending[0].ServiceName)
}

func TestStorage_RegisterUser_ThenInitializeTrial(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.RegisterUser(context.Background(), models.User{
		Email:        "owner@example.com",
		Username:     "owner",
		PasswordHash: "hashedpassword",
		Role:         "user",
		BusinessName: "Beauty Studio",
		Slug:         "beauty-studio-abc123",
	})
	require.NoError(t, err)

	created, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Nil(t, created.TrialStartDate)
	assert.Nil(t, created.TrialEndDate)
	assert.False(t, created.IsTrialActive)

	start := time.Now().UTC()
	end := start.AddDate(0, 0, 14)
	require.NoError(t, storage.InitializeTrial(context.Background(), uid, start, end))

	user, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	require.NotNil(t, user.TrialStartDate)
	require.NotNil(t, user.TrialEndDate)
	assert.WithinDuration(t, start, *user.TrialStartDate, time.Second)
	assert.WithinDuration(t, end, *user.TrialEndDate, time.Second)
	assert.True(t, user.IsTrialActive)
	assert.False(t, user.TrialExpirationNotified)
	assert.Equal(t, models.SubscriptionStatusTrial, user.SubscriptionStatus)
}
