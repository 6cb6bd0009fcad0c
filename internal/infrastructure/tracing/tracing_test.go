package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shop-services/internal/config"
)

func TestInitTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &config.Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_WithEndpoint(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Name: "cart-api", Version: "test", Environment: "test"},
		Tracing: config.TracingConfig{Endpoint: "localhost:4318", Insecure: true},
	}

	shutdown, err := InitTracing(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
