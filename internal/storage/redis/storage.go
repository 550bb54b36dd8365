package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relayio/chatrelay/internal/dependencies/clock"
	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/storage"
	"github.com/relayio/chatrelay/internal/storage/delta"
)

// Storage is a Redis-backed implementation of the record store. Each
// document is a hash; Save writes only the fields the delta engine
// reports as changed.
type Storage struct {
	client *redis.Client
	cfg    Config
	clock  clock.Clock
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
		clock:  clock.New(),
	}, nil
}

// NewWithClient creates a Redis storage with an existing client and
// clock (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		clock:  clk,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.RecordStore = (*Storage)(nil)

// Bookkeeping field names stripped from the delta set; they are stamped
// by the store itself, never diffed.
const (
	fieldID             = "id"
	fieldCreatedOn      = "createdOn"
	fieldLastModifiedOn = "lastModifiedOn"
)

// loadDoc fetches a stored document. ok is false when no hash exists
// under the key.
func (s *Storage) loadDoc(ctx context.Context, key string) (map[string]any, bool, error) {
	raw, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	flat, err := decodeFields(raw)
	if err != nil {
		return nil, false, err
	}
	return delta.Expand(flat), true, nil
}

// saveDoc runs the minimal-delta upsert for one document and reports
// whether anything was written.
//
// The fetch-diff-write below is deliberately not wrapped in WATCH/MULTI:
// a concurrent writer to the same document can interleave, and the
// later delta wins on overlapping fields. Best-effort by contract.
func (s *Storage) saveDoc(ctx context.Context, key string, entity any) (bool, error) {
	next, err := entityDoc(entity)
	if err != nil {
		return false, err
	}
	delete(next, fieldID)
	delete(next, fieldCreatedOn)
	delete(next, fieldLastModifiedOn)

	stored, exists, err := s.loadDoc(ctx, key)
	if err != nil {
		return false, err
	}
	if stored == nil {
		stored = map[string]any{}
	}

	changed := delta.Compute(next, stored)
	if exists && len(changed) == 0 {
		return false, nil
	}

	now := s.clock.Now().UTC()
	fields := make([]any, 0, 2*(len(changed)+1))
	for path, value := range changed {
		enc, err := encodeField(value)
		if err != nil {
			return false, err
		}
		fields = append(fields, path, enc)
	}
	encNow, err := encodeField(now)
	if err != nil {
		return false, err
	}
	fields = append(fields, fieldLastModifiedOn, encNow)

	pipe := s.client.TxPipeline()
	// createdOn is stamped once on first insert and never rewritten.
	pipe.HSetNX(ctx, key, fieldCreatedOn, encNow)
	pipe.HSet(ctx, key, fields...)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	doc, ok, err := s.loadDoc(ctx, playerKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player := &model.Player{ID: id}
	if err := docEntity(doc, player); err != nil {
		return nil, err
	}
	player.ID = id
	return player, nil
}

func (s *Storage) AllPlayers(ctx context.Context) ([]*model.Player, error) {
	keys, err := s.scanKeys(ctx, playerKeyPattern())
	if err != nil {
		return nil, err
	}
	players := make([]*model.Player, 0, len(keys))
	for _, key := range keys {
		id := model.PlayerID(key[len(playerKey("")):])
		player, err := s.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) (*model.Player, error) {
	if _, err := s.saveDoc(ctx, playerKey(player.ID), player); err != nil {
		return nil, err
	}
	return s.GetPlayer(ctx, player.ID)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Channel operations

func (s *Storage) GetChannel(ctx context.Context, id model.ChannelID) (*model.Channel, error) {
	doc, ok, err := s.loadDoc(ctx, channelKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrChannelNotFound
	}
	channel := &model.Channel{ID: id}
	if err := docEntity(doc, channel); err != nil {
		return nil, err
	}
	channel.ID = id
	return channel, nil
}

func (s *Storage) AllChannels(ctx context.Context) ([]*model.Channel, error) {
	keys, err := s.scanKeys(ctx, channelKeyPattern())
	if err != nil {
		return nil, err
	}
	channels := make([]*model.Channel, 0, len(keys))
	for _, key := range keys {
		id := model.ChannelID(key[len(channelKey("")):])
		channel, err := s.GetChannel(ctx, id)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func (s *Storage) SaveChannel(ctx context.Context, channel *model.Channel) (*model.Channel, error) {
	if _, err := s.saveDoc(ctx, channelKey(channel.ID), channel); err != nil {
		return nil, err
	}
	return s.GetChannel(ctx, channel.ID)
}

func (s *Storage) DeleteChannel(ctx context.Context, id model.ChannelID) error {
	return s.client.Del(ctx, channelKey(id)).Err()
}

func (s *Storage) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
