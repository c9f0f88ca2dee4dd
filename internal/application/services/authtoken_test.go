package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthTokenService(t *testing.T) (*services.AuthTokenService, *mocks.MockClient) {
	gateway := mocks.NewMockClient(t)
	logger := testhelpers.DiscardLogger()
	tokens := services.NewTokenProvider(gateway, testhelpers.NewFakeTokenCache(), time.Hour, logger)
	return services.NewAuthTokenService(gateway, tokens, logger), gateway
}

func TestAuthTokenService_ReturnsGatewayBody(t *testing.T) {
	service, gateway := newAuthTokenService(t)
	body := json.RawMessage(`{"result":"SUCCESS","biz_content":{"access_token":"at-1"}}`)

	gateway.EXPECT().
		ApplyFabricToken(mock.Anything).
		Return(&telebirr.FabricToken{Token: "Bearer fabric", ExpiresAt: time.Now().Add(time.Hour)}, nil).
		Once()
	gateway.EXPECT().
		RequestAuthToken(mock.Anything, "Bearer fabric", "app-token-1").
		Return(body, nil).
		Once()

	got, err := service.RequestAuthToken(context.Background(), services.AuthTokenCommand{AppToken: "app-token-1"})

	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(got))
}

func TestAuthTokenService_RequiresAppToken(t *testing.T) {
	service, _ := newAuthTokenService(t)

	_, err := service.RequestAuthToken(context.Background(), services.AuthTokenCommand{})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(err))
}

func TestAuthTokenService_GatewayErrorIsGeneric(t *testing.T) {
	service, gateway := newAuthTokenService(t)

	gateway.EXPECT().
		ApplyFabricToken(mock.Anything).
		Return(&telebirr.FabricToken{Token: "Bearer fabric"}, nil).
		Once()
	gateway.EXPECT().
		RequestAuthToken(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &telebirr.GatewayError{Code: telebirr.CodeUnexpectedStatus, Message: "invalid appToken", StatusCode: 400}).
		Once()

	_, err := service.RequestAuthToken(context.Background(), services.AuthTokenCommand{AppToken: "bad"})

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeGateway, svcErr.Code)
	assert.Equal(t, http.StatusBadGateway, svcErr.HTTPStatus)
	assert.NotContains(t, svcErr.Message, "appToken")
}
