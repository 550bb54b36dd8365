// Package directory holds the authoritative in-memory view of players
// and channels. It is hydrated from the record store once at startup
// and is the single source of truth while the process runs.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/storage"
)

// DefaultChannelIDs are the reserved system channels ensured to exist
// after every hydration.
var DefaultChannelIDs = []model.ChannelID{
	"global",
	"global-dev",
	"global-de",
	"global-en",
	"global-es",
	"global-fr",
	"global-ru",
}

// Hydration retry policy. Exhaustion is fatal: the directory cannot
// start in an unknown state.
const (
	hydrateAttempts = 6
	hydrateDelay    = 2 * time.Second
)

// Directory owns the Players and Channels maps. It is not safe for
// concurrent use; the relay dispatcher loop is its single writer.
type Directory struct {
	store  storage.RecordStore
	logger *slog.Logger

	players  map[model.PlayerID]*model.Player
	channels map[model.ChannelID]*model.Channel

	retryDelay time.Duration
}

// New creates an empty directory backed by the given record store.
func New(store storage.RecordStore, logger *slog.Logger) *Directory {
	return &Directory{
		store:      store,
		logger:     logger,
		players:    make(map[model.PlayerID]*model.Player),
		channels:   make(map[model.ChannelID]*model.Channel),
		retryDelay: hydrateDelay,
	}
}

// Hydrate loads all persisted records into memory, retrying with a
// fixed delay up to a bounded attempt count. It must complete before
// the dispatcher accepts traffic.
func (d *Directory) Hydrate(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= hydrateAttempts; attempt++ {
		lastErr = d.load(ctx)
		if lastErr == nil {
			d.logger.Info("directory hydrated",
				slog.Int("players", len(d.players)),
				slog.Int("channels", len(d.channels)))
			return nil
		}

		d.logger.Error("directory hydration failed",
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))

		if attempt < hydrateAttempts {
			select {
			case <-time.After(d.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("hydration failed after %d attempts: %w", hydrateAttempts, lastErr)
}

func (d *Directory) load(ctx context.Context) error {
	channels, err := d.store.AllChannels(ctx)
	if err != nil {
		return fmt.Errorf("load channels: %w", err)
	}
	for _, channel := range channels {
		d.channels[channel.ID] = channel
	}

	d.ensureDefaultChannels(ctx)

	players, err := d.store.AllPlayers(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	for _, player := range players {
		d.players[player.ID] = player
	}
	return nil
}

// ensureDefaultChannels creates any missing reserved channel, persisting
// it best-effort.
func (d *Directory) ensureDefaultChannels(ctx context.Context) {
	for _, id := range DefaultChannelIDs {
		if _, ok := d.channels[id]; ok {
			continue
		}
		channel := model.NewDefaultChannel(id)
		d.channels[id] = channel
		if _, err := d.store.SaveChannel(ctx, channel); err != nil {
			d.logger.Error("failed to persist default channel",
				slog.String("channel", string(id)),
				slog.String("error", err.Error()))
		}
	}
}

// Player operations

func (d *Directory) Player(id model.PlayerID) (*model.Player, bool) {
	player, ok := d.players[id]
	return player, ok
}

func (d *Directory) PutPlayer(player *model.Player) {
	d.players[player.ID] = player
}

func (d *Directory) RemovePlayer(id model.PlayerID) {
	delete(d.players, id)
}

// EachPlayer visits every player in the directory.
func (d *Directory) EachPlayer(fn func(*model.Player)) {
	for _, player := range d.players {
		fn(player)
	}
}

func (d *Directory) PlayerCount() int {
	return len(d.players)
}

// Channel operations

func (d *Directory) Channel(id model.ChannelID) (*model.Channel, bool) {
	channel, ok := d.channels[id]
	return channel, ok
}

func (d *Directory) PutChannel(channel *model.Channel) {
	d.channels[channel.ID] = channel
}

func (d *Directory) RemoveChannel(id model.ChannelID) {
	delete(d.channels, id)
}

// EachChannel visits every channel in the directory.
func (d *Directory) EachChannel(fn func(*model.Channel)) {
	for _, channel := range d.channels {
		fn(channel)
	}
}

func (d *Directory) ChannelCount() int {
	return len(d.channels)
}
