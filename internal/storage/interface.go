package storage

import (
	"context"

	"github.com/relayio/chatrelay/internal/model"
)

// RecordStore is durable key-value document storage for the relay's
// entity types: point lookup, full scan, delete, and a minimal-delta
// upsert.
//
// Save computes the smallest set of fields that changed against the
// last stored version and writes only that set. lastModifiedOn is
// stamped on every write; createdOn is stamped once on first insert and
// never rewritten. If nothing changed, Save skips the write entirely
// and returns the stored state.
//
// The fetch-diff-upsert sequence inside Save is not atomic against
// other writers: a concurrent update to the same record can race it,
// with the later writer's delta winning on any overlapping field. This
// is the accepted best-effort consistency model.
type RecordStore interface {
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	AllPlayers(ctx context.Context) ([]*model.Player, error)
	SavePlayer(ctx context.Context, player *model.Player) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	GetChannel(ctx context.Context, id model.ChannelID) (*model.Channel, error)
	AllChannels(ctx context.Context) ([]*model.Channel, error)
	SaveChannel(ctx context.Context, channel *model.Channel) (*model.Channel, error)
	DeleteChannel(ctx context.Context, id model.ChannelID) error

	Close() error
}
