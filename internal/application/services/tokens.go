package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
)

// tokenSkew is how long before expirationDate a cached token stops being used.
const tokenSkew = 2 * time.Minute

// TokenProvider hands out a fabric token, applying for a new one only when the
// cached token is missing or about to expire.
type TokenProvider struct {
	gateway  telebirr.Client
	cache    application.TokenCache
	fallback time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewTokenProvider(gateway telebirr.Client, cache application.TokenCache, fallbackTTL time.Duration, logger *slog.Logger) *TokenProvider {
	return &TokenProvider{
		gateway:  gateway,
		cache:    cache,
		fallback: fallbackTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// FabricToken never fails because of the cache: a broken cache only costs an
// extra token exchange.
func (p *TokenProvider) FabricToken(ctx context.Context) (string, error) {
	if token, ok, err := p.cache.Get(ctx); err != nil {
		p.logger.Warn("fabric token cache read failed", "error", err)
	} else if ok {
		return token, nil
	}

	token, err := p.gateway.ApplyFabricToken(ctx)
	if err != nil {
		return "", err
	}

	if !token.Valid(p.now(), tokenSkew) {
		p.logger.Warn("fabric token expires too soon to cache", "expires_at", token.ExpiresAt)
		return token.Token, nil
	}

	if err := p.cache.Set(ctx, token.Token, p.ttl(token)); err != nil {
		p.logger.Warn("fabric token cache write failed", "error", err)
	}

	p.logger.Debug("fabric token refreshed", "expires_at", token.ExpiresAt)
	return token.Token, nil
}

// ttl never exceeds the configured token lifetime, whatever expiry the gateway reports.
func (p *TokenProvider) ttl(token *telebirr.FabricToken) time.Duration {
	if token.ExpiresAt.IsZero() {
		return p.fallback
	}
	return min(token.ExpiresAt.Sub(p.now())-tokenSkew, p.fallback)
}
