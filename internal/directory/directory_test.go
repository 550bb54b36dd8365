package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/relayio/chatrelay/internal/dependencies/mocks"
	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/storage"
	"github.com/relayio/chatrelay/internal/storage/memory"
	"github.com/relayio/chatrelay/internal/testutil"
)

type DirectorySuite struct {
	suite.Suite
	storage   *memory.Storage
	directory *Directory
	ctx       context.Context
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.storage = memory.New(mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
	s.directory = New(s.storage, testutil.NopLogger())
	s.directory.retryDelay = time.Millisecond
	s.ctx = context.Background()
}

func (s *DirectorySuite) TestHydrateEnsuresDefaultChannels() {
	s.Require().NoError(s.directory.Hydrate(s.ctx))

	s.Equal(len(DefaultChannelIDs), s.directory.ChannelCount())
	for _, id := range DefaultChannelIDs {
		channel, ok := s.directory.Channel(id)
		s.Require().True(ok, "missing default channel %s", id)
		s.False(channel.Secure)

		// Defaults are persisted, not just held in memory.
		_, err := s.storage.GetChannel(s.ctx, id)
		s.NoError(err)
	}
}

func (s *DirectorySuite) TestHydrateLoadsPersistedRecords() {
	_, err := s.storage.SaveChannel(s.ctx, &model.Channel{
		ID:          "secretclub",
		Secure:      true,
		OwnerID:     "p1",
		Description: "Channel created by Alice",
	})
	s.Require().NoError(err)

	player := model.NewAnonymousPlayer("p1", "Alice")
	player.Registered = true
	player.Channels = []model.ChannelID{"secretclub"}
	_, err = s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	s.Require().NoError(s.directory.Hydrate(s.ctx))

	got, ok := s.directory.Player("p1")
	s.Require().True(ok)
	s.Equal([]model.ChannelID{"secretclub"}, got.Channels)

	channel, ok := s.directory.Channel("secretclub")
	s.Require().True(ok)
	s.Equal(model.PlayerID("p1"), channel.OwnerID)
}

func (s *DirectorySuite) TestHydrateDoesNotOverwriteExistingDefault() {
	global := model.NewDefaultChannel("global")
	global.Description = "the one true global"
	_, err := s.storage.SaveChannel(s.ctx, global)
	s.Require().NoError(err)

	s.Require().NoError(s.directory.Hydrate(s.ctx))

	channel, ok := s.directory.Channel("global")
	s.Require().True(ok)
	s.Equal("the one true global", channel.Description)
}

func (s *DirectorySuite) TestPutRemovePlayer() {
	player := model.NewAnonymousPlayer("p1", "Alice")
	s.directory.PutPlayer(player)

	got, ok := s.directory.Player("p1")
	s.Require().True(ok)
	s.Equal(player, got)

	s.directory.RemovePlayer("p1")
	_, ok = s.directory.Player("p1")
	s.False(ok)
}

// failingStore fails every read a fixed number of times before
// delegating to the wrapped store.
type failingStore struct {
	storage.RecordStore
	failures int
	calls    int
}

func (f *failingStore) AllChannels(ctx context.Context) ([]*model.Channel, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("store unreachable")
	}
	return f.RecordStore.AllChannels(ctx)
}

func TestHydrateRetriesThenSucceeds(t *testing.T) {
	store := &failingStore{
		RecordStore: memory.New(mocks.NewMockClock(time.Now())),
		failures:    2,
	}
	d := New(store, testutil.NopLogger())
	d.retryDelay = time.Millisecond

	require.NoError(t, d.Hydrate(context.Background()))
	require.Equal(t, 3, store.calls)
}

func TestHydrateFatalAfterBoundedAttempts(t *testing.T) {
	store := &failingStore{
		RecordStore: memory.New(mocks.NewMockClock(time.Now())),
		failures:    100,
	}
	d := New(store, testutil.NopLogger())
	d.retryDelay = time.Millisecond

	err := d.Hydrate(context.Background())
	require.Error(t, err)
	require.Equal(t, hydrateAttempts, store.calls)
}
