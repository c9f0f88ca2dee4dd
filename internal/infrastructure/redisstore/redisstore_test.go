package redisstore_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services/testhelpers"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/redisstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite
	redis *testhelpers.TestRedis
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (suite *RedisStoreTestSuite) SetupSuite() {
	suite.redis = testhelpers.SetupTestRedis(suite.T())
}

func (suite *RedisStoreTestSuite) TearDownSuite() {
	suite.redis.Cleanup(suite.T())
}

func (suite *RedisStoreTestSuite) SetupTest() {
	suite.redis.Flush(suite.T())
}

func (suite *RedisStoreTestSuite) Test_TokenCache_MissThenHit() {
	ctx := context.Background()
	t := suite.T()
	cache := redisstore.NewTokenCache(suite.redis.Client)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "Bearer abc", time.Minute))

	token, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", token)

	ttl, err := suite.redis.Client.TTL(ctx, "telebirr:fabric_token").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}

func (suite *RedisStoreTestSuite) Test_TokenCache_IgnoresExpiredTTL() {
	ctx := context.Background()
	t := suite.T()
	cache := redisstore.NewTokenCache(suite.redis.Client)

	require.NoError(t, cache.Set(ctx, "Bearer stale", -time.Second))

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func (suite *RedisStoreTestSuite) Test_Locker_ExclusiveUntilReleased() {
	ctx := context.Background()
	t := suite.T()
	locker := redisstore.NewLocker(suite.redis.Client)

	unlock, err := locker.TryLock(ctx, "M1", 5*time.Second)
	require.NoError(t, err)

	_, err = locker.TryLock(ctx, "M1", 5*time.Second)
	assert.ErrorIs(t, err, application.ErrLockHeld)

	otherUnlock, err := locker.TryLock(ctx, "M2", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, otherUnlock(ctx))

	require.NoError(t, unlock(ctx))

	again, err := locker.TryLock(ctx, "M1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func (suite *RedisStoreTestSuite) Test_Locker_StaleReleaseKeepsNewHolder() {
	ctx := context.Background()
	t := suite.T()
	locker := redisstore.NewLocker(suite.redis.Client)

	staleUnlock, err := locker.TryLock(ctx, "M1", 50*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		unlock, err := locker.TryLock(ctx, "M1", 5*time.Second)
		if err != nil {
			return false
		}
		_ = unlock
		return true
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, staleUnlock(ctx))

	_, err = locker.TryLock(ctx, "M1", 5*time.Second)
	assert.ErrorIs(t, err, application.ErrLockHeld)
}

func (suite *RedisStoreTestSuite) Test_Publisher_PublishesPaymentUpdate() {
	ctx := context.Background()
	t := suite.T()

	sub := suite.redis.Client.Subscribe(ctx, "payment_updates")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := redisstore.NewPublisher(suite.redis.Client, "payment_updates")
	update := domain.PaymentUpdate{
		MerchOrderID: "M1",
		OrderID:      "order-1",
		UserID:       "user-1",
		Status:       domain.StatusPaid,
		Timestamp:    1700000000,
	}
	require.NoError(t, publisher.PublishPaymentUpdate(ctx, update))

	select {
	case msg := <-sub.Channel():
		var event struct {
			Event string               `json:"event"`
			Data  domain.PaymentUpdate `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, "paymentUpdate", event.Event)
		assert.Equal(t, update, event.Data)
	case <-time.After(5 * time.Second):
		t.Fatal("payment update not received")
	}
}
