package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// FakeTokenCache is an in-memory TokenCache. Set the Fn fields to inject failures.
type FakeTokenCache struct {
	mu    sync.Mutex
	token string
	ttl   time.Duration
	Sets  int

	GetFn func(ctx context.Context) (string, bool, error)
	SetFn func(ctx context.Context, token string, ttl time.Duration) error
}

func NewFakeTokenCache() *FakeTokenCache {
	return &FakeTokenCache{}
}

func (c *FakeTokenCache) Get(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetFn != nil {
		return c.GetFn(ctx)
	}
	return c.token, c.token != "", nil
}

func (c *FakeTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetFn != nil {
		return c.SetFn(ctx, token, ttl)
	}
	c.token = token
	c.ttl = ttl
	c.Sets++
	return nil
}

// TTL returns the ttl passed to the last successful Set.
func (c *FakeTokenCache) TTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl
}

// FakeLocker is a process-local Locker.
type FakeLocker struct {
	mu   sync.Mutex
	held map[string]bool

	TryLockFn func(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

func NewFakeLocker() *FakeLocker {
	return &FakeLocker{held: make(map[string]bool)}
}

func (l *FakeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if l.TryLockFn != nil {
		return l.TryLockFn(ctx, key, ttl)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, application.ErrLockHeld
	}
	l.held[key] = true

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		return nil
	}, nil
}

// FakePublisher records published updates.
type FakePublisher struct {
	mu      sync.Mutex
	updates []domain.PaymentUpdate

	PublishFn func(ctx context.Context, update domain.PaymentUpdate) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (p *FakePublisher) PublishPaymentUpdate(ctx context.Context, update domain.PaymentUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PublishFn != nil {
		return p.PublishFn(ctx, update)
	}
	p.updates = append(p.updates, update)
	return nil
}

func (p *FakePublisher) Updates() []domain.PaymentUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PaymentUpdate(nil), p.updates...)
}
