package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
)

// AuthTokenService exchanges a customer's app token for a gateway access token.
type AuthTokenService struct {
	gateway telebirr.Client
	tokens  *TokenProvider
	logger  *slog.Logger
}

func NewAuthTokenService(gateway telebirr.Client, tokens *TokenProvider, logger *slog.Logger) *AuthTokenService {
	return &AuthTokenService{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

// RequestAuthToken returns the gateway response body unchanged.
func (s *AuthTokenService) RequestAuthToken(ctx context.Context, cmd AuthTokenCommand) (json.RawMessage, error) {
	if cmd.AppToken == "" {
		return nil, application.NewInvalidInputError(domain.NewMissingRequiredFieldError("authToken"))
	}

	fabricToken, err := s.tokens.FabricToken(ctx)
	if err != nil {
		s.logger.Error("fabric token unavailable for auth token request", "error", err)
		return nil, s.mapErr(err)
	}

	body, err := s.gateway.RequestAuthToken(ctx, fabricToken, cmd.AppToken)
	if err != nil {
		s.logger.Error("auth token request failed", "error", err)
		return nil, s.mapErr(err)
	}

	return body, nil
}

func (s *AuthTokenService) mapErr(err error) error {
	if _, ok := telebirr.IsGatewayError(err); ok {
		return application.NewGatewayError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return application.NewTimeoutError()
	}
	return application.NewInternalError(err)
}
