package memory

import (
	"context"
	"sync"

	"github.com/relayio/chatrelay/internal/dependencies/clock"
	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/storage"
)

// Storage is an in-memory implementation of the record store, used by
// tests and the memory storage mode.
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	players  map[model.PlayerID]*model.Player
	channels map[model.ChannelID]*model.Channel
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:    clk,
		players:  make(map[model.PlayerID]*model.Player),
		channels: make(map[model.ChannelID]*model.Channel),
	}
}

// Ensure Storage implements the interface
var _ storage.RecordStore = (*Storage)(nil)

func (s *Storage) Close() error {
	return nil
}

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) AllPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		players = append(players, player.Clone())
	}
	return players, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := player.Clone()
	now := s.clock.Now().UTC()
	if existing, ok := s.players[player.ID]; ok {
		saved.CreatedOn = existing.CreatedOn
	} else {
		saved.CreatedOn = now
	}
	saved.LastModifiedOn = now

	s.players[player.ID] = saved
	return saved.Clone(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Channel operations

func (s *Storage) GetChannel(ctx context.Context, id model.ChannelID) (*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[id]
	if !ok {
		return nil, model.ErrChannelNotFound
	}
	return channel.Clone(), nil
}

func (s *Storage) AllChannels(ctx context.Context) ([]*model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channels := make([]*model.Channel, 0, len(s.channels))
	for _, channel := range s.channels {
		channels = append(channels, channel.Clone())
	}
	return channels, nil
}

func (s *Storage) SaveChannel(ctx context.Context, channel *model.Channel) (*model.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := channel.Clone()
	now := s.clock.Now().UTC()
	if existing, ok := s.channels[channel.ID]; ok {
		saved.CreatedOn = existing.CreatedOn
	} else {
		saved.CreatedOn = now
	}
	saved.LastModifiedOn = now

	s.channels[channel.ID] = saved
	return saved.Clone(), nil
}

func (s *Storage) DeleteChannel(ctx context.Context, id model.ChannelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, id)
	return nil
}
