package services_test

import (
	"context"
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

type QueryServiceTestSuite struct {
	suite.Suite
	testDB  *testhelpers.TestDatabase
	service *services.QueryService
	notify  *services.NotifyService
	signer  *telebirr.WebhookVerifier
}

func TestQueryServiceSuite(t *testing.T) {
	suite.Run(t, new(QueryServiceTestSuite))
}

func (suite *QueryServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.service = services.NewQueryService(
		postgres.NewAttemptRepository(suite.testDB.DB),
		postgres.NewOrderRepository(suite.testDB.DB),
	)
	suite.signer = telebirr.NewWebhookVerifier("app-key")
	suite.notify = services.NewNotifyService(
		suite.signer,
		postgres.NewTransactionCoordinator(suite.testDB.DB),
		testhelpers.NewFakeLocker(),
		testhelpers.NewFakePublisher(),
		time.Second,
		testhelpers.DiscardLogger(),
	)
}

func (suite *QueryServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *QueryServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *QueryServiceTestSuite) Test_FindByMerchOrderID_Awaiting() {
	ctx := context.Background()
	t := suite.T()
	cart := testhelpers.SeedCart(t, ctx, suite.testDB.DB, testhelpers.DefaultCartItems()...)
	attempt := testhelpers.SeedAwaitingAttempt(t, ctx, suite.testDB.DB, cart, time.Hour)

	status, err := suite.service.FindByMerchOrderID(ctx, cart.UserID, attempt.MerchOrderID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingPayment, status.Attempt.Status)
	assert.Nil(t, status.Order)
}

func (suite *QueryServiceTestSuite) Test_FindByMerchOrderID_PaidIncludesOrder() {
	ctx := context.Background()
	t := suite.T()
	cart := testhelpers.SeedCart(t, ctx, suite.testDB.DB, testhelpers.DefaultCartItems()...)
	attempt := testhelpers.SeedAwaitingAttempt(t, ctx, suite.testDB.DB, cart, time.Hour)

	_, err := suite.notify.HandleNotification(ctx, domain.OrderNotification{
		OrderID:     attempt.MerchOrderID,
		TotalAmount: "100.50",
		Sign:        suite.signer.Compute(attempt.MerchOrderID, "100.50"),
	})
	require.NoError(t, err)

	status, err := suite.service.FindByMerchOrderID(ctx, cart.UserID, attempt.MerchOrderID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, status.Attempt.Status)
	require.NotNil(t, status.Order)
	assert.Len(t, status.Order.Items, 2)
}

func (suite *QueryServiceTestSuite) Test_FindByMerchOrderID_OtherUserSeesNotFound() {
	ctx := context.Background()
	t := suite.T()
	cart := testhelpers.SeedCart(t, ctx, suite.testDB.DB, testhelpers.DefaultCartItems()...)
	attempt := testhelpers.SeedAwaitingAttempt(t, ctx, suite.testDB.DB, cart, time.Hour)

	_, err := suite.service.FindByMerchOrderID(ctx, "someone-else", attempt.MerchOrderID)

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, application.ToHTTPStatus(err))
}

func (suite *QueryServiceTestSuite) Test_FindByMerchOrderID_Unknown() {
	_, err := suite.service.FindByMerchOrderID(context.Background(), "u1", "missing")

	require.Error(suite.T(), err)
	assert.Equal(suite.T(), application.ErrCodeNotFound, application.ToErrorCode(err))
}
