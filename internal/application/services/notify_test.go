package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NotifyServiceTestSuite struct {
	suite.Suite
	testDB      *testhelpers.TestDatabase
	attemptRepo *postgres.AttemptRepository
	cartRepo    *postgres.CartRepository
	orderRepo   *postgres.OrderRepository
	verifier    *telebirr.WebhookVerifier
	locker      *testhelpers.FakeLocker
	publisher   *testhelpers.FakePublisher
	service     *services.NotifyService
}

func TestNotifyServiceSuite(t *testing.T) {
	suite.Run(t, new(NotifyServiceTestSuite))
}

func (suite *NotifyServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.attemptRepo = postgres.NewAttemptRepository(suite.testDB.DB)
	suite.cartRepo = postgres.NewCartRepository(suite.testDB.DB)
	suite.orderRepo = postgres.NewOrderRepository(suite.testDB.DB)
	suite.verifier = telebirr.NewWebhookVerifier(testhelpers.TelebirrConfig().AppKey)
}

func (suite *NotifyServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *NotifyServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
	suite.locker = testhelpers.NewFakeLocker()
	suite.publisher = testhelpers.NewFakePublisher()
	suite.service = services.NewNotifyService(
		suite.verifier,
		postgres.NewTransactionCoordinator(suite.testDB.DB),
		suite.locker,
		suite.publisher,
		5*time.Second,
		testhelpers.DiscardLogger(),
	)
}

func (suite *NotifyServiceTestSuite) seed() (*domain.Cart, *domain.PaymentAttempt) {
	ctx := context.Background()
	cart := testhelpers.SeedCart(suite.T(), ctx, suite.testDB.DB, testhelpers.DefaultCartItems()...)
	attempt := testhelpers.SeedAwaitingAttempt(suite.T(), ctx, suite.testDB.DB, cart, time.Hour)
	return cart, attempt
}

func (suite *NotifyServiceTestSuite) notification(merchOrderID, amount string) domain.OrderNotification {
	return domain.OrderNotification{
		OrderID:     merchOrderID,
		TotalAmount: amount,
		Sign:        suite.verifier.Compute(merchOrderID, amount),
	}
}

// ============================================================================
// HAPPY PATH TESTS
// ============================================================================

func (suite *NotifyServiceTestSuite) Test_HandleNotification_FinalizesOrder() {
	ctx := context.Background()
	t := suite.T()
	cart, attempt := suite.seed()

	paid, err := suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "100.50"))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	require.NotNil(t, paid.OrderID)

	order, err := suite.orderRepo.FindByMerchOrderID(ctx, attempt.MerchOrderID)
	require.NoError(t, err)
	assert.Equal(t, *paid.OrderID, order.ID)
	assert.Equal(t, cart.UserID, order.UserID)
	assert.Equal(t, "100.50", order.Total.String())
	assert.Len(t, order.Items, 2)

	storedCart, err := suite.cartRepo.FindByUserID(ctx, cart.UserID)
	require.NoError(t, err)
	assert.True(t, storedCart.IsEmpty())

	updates := suite.publisher.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, attempt.MerchOrderID, updates[0].MerchOrderID)
	assert.Equal(t, order.ID, updates[0].OrderID)
	assert.Equal(t, domain.StatusPaid, updates[0].Status)
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_AmountWithoutTrailingZero() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()

	paid, err := suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "100.5"))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
}

// ============================================================================
// EDGE CASE TESTS
// ============================================================================

func (suite *NotifyServiceTestSuite) Test_HandleNotification_RedeliveryIsAcknowledged() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()
	n := suite.notification(attempt.MerchOrderID, "100.50")

	first, err := suite.service.HandleNotification(ctx, n)
	require.NoError(t, err)

	second, err := suite.service.HandleNotification(ctx, n)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, second.Status)
	assert.Equal(t, *first.OrderID, *second.OrderID)
	assert.Len(t, suite.publisher.Updates(), 1)
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_BadSignatureChangesNothing() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()

	n := suite.notification(attempt.MerchOrderID, "100.50")
	n.TotalAmount = "1.00"

	_, err := suite.service.HandleNotification(ctx, n)

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, application.ToHTTPStatus(err))
	assert.Equal(t, application.ErrCodeSignatureMismatch, application.ToErrorCode(err))

	saved, err := suite.attemptRepo.FindByMerchOrderID(ctx, attempt.MerchOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingPayment, saved.Status)
	assert.Empty(t, suite.publisher.Updates())
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_AmountMismatch() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()

	_, err := suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "99.00"))

	require.Error(t, err)
	assert.Equal(t, application.ErrCodeInvalidState, application.ToErrorCode(err))
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)

	saved, err := suite.attemptRepo.FindByMerchOrderID(ctx, attempt.MerchOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingPayment, saved.Status)

	_, err = suite.orderRepo.FindByMerchOrderID(ctx, attempt.MerchOrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_UnknownOrder() {
	ctx := context.Background()
	t := suite.T()

	_, err := suite.service.HandleNotification(ctx, suite.notification("20260101000000123", "10.00"))

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, application.ToHTTPStatus(err))
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_ExpiredAttempt() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()

	require.NoError(t, attempt.MarkExpired())
	require.NoError(t, suite.attemptRepo.Update(ctx, attempt))

	_, err := suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "100.50"))

	require.Error(t, err)
	assert.Equal(t, application.ErrCodeInvalidState, application.ToErrorCode(err))
	assert.ErrorIs(t, err, domain.ErrAttemptExpired)
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_LockHeld() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()

	unlock, err := suite.locker.TryLock(ctx, attempt.MerchOrderID, time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "100.50"))

	require.Error(t, err)
	assert.Equal(t, application.ErrCodeRequestProcessing, application.ToErrorCode(err))
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_PublishFailureIsNotFatal() {
	ctx := context.Background()
	t := suite.T()
	_, attempt := suite.seed()
	suite.publisher.PublishFn = func(context.Context, domain.PaymentUpdate) error {
		return errors.New("redis down")
	}

	paid, err := suite.service.HandleNotification(ctx, suite.notification(attempt.MerchOrderID, "100.50"))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
}

func (suite *NotifyServiceTestSuite) Test_HandleNotification_MissingFields() {
	ctx := context.Background()
	t := suite.T()

	_, err := suite.service.HandleNotification(ctx, domain.OrderNotification{Sign: "abc"})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(err))
}
