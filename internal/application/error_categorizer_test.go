package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want application.ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, application.CategoryTransient},
		{"configuration", &config.ConfigurationError{Field: "telebirr.app_key", Reason: "missing"}, application.CategoryInfrastructure},
		{"expired", domain.NewAttemptExpiredError("M1"), application.CategoryBusinessRule},
		{"amount mismatch", domain.NewAmountMismatchError("10.00", "9.00"), application.CategoryBusinessRule},
		{"not found", fmt.Errorf("lookup: %w", domain.ErrAttemptNotFound), application.CategoryClientError},
		{"gateway 503", &telebirr.GatewayError{Code: telebirr.CodeUnexpectedStatus, StatusCode: 503}, application.CategoryTransient},
		{"gateway rejected", &telebirr.GatewayError{Code: telebirr.CodeRejected, StatusCode: 200}, application.CategoryPermanent},
		{"signature", application.NewSignatureMismatchError(), application.CategoryClientError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.CategorizeError(tt.err))
		})
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"service error wins", application.NewGatewayError(errors.New("upstream")), http.StatusBadGateway},
		{"processing", application.NewRequestProcessingError(), http.StatusAccepted},
		{"signature", application.NewSignatureMismatchError(), http.StatusUnauthorized},
		{"empty cart", domain.NewEmptyCartError("c1"), http.StatusBadRequest},
		{"transition", domain.NewInvalidTransitionError(domain.StatusPaid, domain.StatusFailed), http.StatusConflict},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"raw gateway", &telebirr.GatewayError{Code: telebirr.CodeTransport}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ToHTTPStatus(tt.err))
		})
	}
}

func TestToErrorCode(t *testing.T) {
	assert.Equal(t, application.ErrCodeConfiguration, application.ToErrorCode(application.NewConfigurationError(errors.New("bad key"))))
	assert.Equal(t, domain.ErrCodeEmptyCart, application.ToErrorCode(domain.NewEmptyCartError("c1")))
	assert.Equal(t, application.ErrCodeNotFound, application.ToErrorCode(domain.ErrCartNotFound))
	assert.Equal(t, application.ErrCodeGateway, application.ToErrorCode(&telebirr.GatewayError{Code: telebirr.CodeMalformed}))
	assert.Equal(t, application.ErrCodeInternal, application.ToErrorCode(errors.New("boom")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, application.IsRetryable(&telebirr.GatewayError{Code: telebirr.CodeTransport}))
	assert.False(t, application.IsRetryable(domain.NewEmptyCartError("c1")))
	assert.False(t, application.IsRetryable(application.NewSignatureMismatchError()))
}
