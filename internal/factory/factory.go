// Package factory wires the relay's components from configuration.
package factory

import (
	"errors"
	"log/slog"

	"github.com/relayio/chatrelay/internal/bridge"
	"github.com/relayio/chatrelay/internal/config"
	"github.com/relayio/chatrelay/internal/dependencies/clock"
	"github.com/relayio/chatrelay/internal/directory"
	"github.com/relayio/chatrelay/internal/registry"
	"github.com/relayio/chatrelay/internal/relay"
	"github.com/relayio/chatrelay/internal/storage"
	"github.com/relayio/chatrelay/internal/storage/memory"
	redisstorage "github.com/relayio/chatrelay/internal/storage/redis"
	"github.com/relayio/chatrelay/internal/testutil"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired relay components.
type App struct {
	Store      storage.RecordStore
	Clock      clock.Clock
	Directory  *directory.Directory
	Registry   *registry.Connections
	Bridge     bridge.Bridge
	Dispatcher *relay.Dispatcher
}

// New wires the relay from configuration. The directory is NOT hydrated
// here; the caller decides when (and with what context) to hydrate.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = testutil.NopLogger()
	}

	clk := clock.New()

	var store storage.RecordStore
	switch cfg.Storage {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid storage backend: must be 'memory' or 'redis'")
	}

	var chatBridge bridge.Bridge = bridge.Nop{}
	if cfg.BridgeWebhookURL != "" {
		chatBridge = bridge.NewWebhook(cfg.BridgeWebhookURL, logger)
	}

	dir := directory.New(store, logger)
	conns := registry.New()

	dispatcher := relay.New(relay.Config{
		Directory: dir,
		Registry:  conns,
		Store:     store,
		Bridge:    chatBridge,
		Secret:    cfg.ChannelSecret,
		Logger:    logger,
		Clock:     clk,
	})

	return &App{
		Store:      store,
		Clock:      clk,
		Directory:  dir,
		Registry:   conns,
		Bridge:     chatBridge,
		Dispatcher: dispatcher,
	}, nil
}
