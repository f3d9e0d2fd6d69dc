package appcontext

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationContextRequiresConfig(t *testing.T) {
	app, err := NewApplicationContext(nil)
	require.Error(t, err)
	require.Nil(t, app)
}

func TestOptionalInfraFallsBack(t *testing.T) {
	app := &ApplicationContext{Cf: &config.Config{
		LoginRateLimit:  3,
		LoginRateWindow: time.Minute,
		AuthTokenKey:    "01234567890123456789012345678901",
		AuthTokenIssuer: "storefront",
	}}

	require.NoError(t, app.setUpRedis())
	require.Nil(t, app.RedisClient)

	require.NoError(t, app.setUpEventProducer())
	require.IsType(t, producer.NoopOrderEventProducer{}, app.EventProducer)

	require.NoError(t, app.setUpLoginLimiter())
	require.IsType(t, &ratelimit.FixedWindow{}, app.LoginLimiter)

	require.NoError(t, app.setTokenMaker())
	require.NotNil(t, app.TokenMaker)

	require.NoError(t, app.setUpProductCache())
	require.IsType(t, redis_decorator.NoopInvalidator{}, app.CacheInvalidator)

	require.NoError(t, app.Shutdown(context.Background()))
}

func TestTokenMakerRejectsShortKey(t *testing.T) {
	app := &ApplicationContext{Cf: &config.Config{AuthTokenKey: "short"}}
	require.Error(t, app.setTokenMaker())
}
