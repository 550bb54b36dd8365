package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayio/chatrelay/internal/bridge"
	"github.com/relayio/chatrelay/internal/config"
)

func memoryConfig() config.Config {
	return config.Config{
		Storage:       StorageTypeMemory,
		ChannelSecret: "test-secret",
	}
}

func TestNewMemoryApp(t *testing.T) {
	app, err := New(memoryConfig(), nil)
	require.NoError(t, err)

	assert.NotNil(t, app.Store)
	assert.NotNil(t, app.Directory)
	assert.NotNil(t, app.Registry)
	assert.NotNil(t, app.Dispatcher)
	assert.IsType(t, bridge.Nop{}, app.Bridge)

	require.NoError(t, app.Directory.Hydrate(context.Background()))
	assert.NotZero(t, app.Directory.ChannelCount())
}

func TestNewWebhookBridgeWhenConfigured(t *testing.T) {
	cfg := memoryConfig()
	cfg.BridgeWebhookURL = "http://bridge.example/hook"

	app, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &bridge.Webhook{}, app.Bridge)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage = "cassandra"

	_, err := New(cfg, nil)
	require.Error(t, err)
}
