package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/relayio/chatrelay/internal/dependencies/mocks"
	"github.com/relayio/chatrelay/internal/model"
)

type MemoryStorageSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *Storage
	ctx     context.Context
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(MemoryStorageSuite))
}

func (s *MemoryStorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = New(s.clock)
	s.ctx = context.Background()
}

func (s *MemoryStorageSuite) TestSaveAndGetPlayer() {
	player := model.NewAnonymousPlayer("p1", "Alice")
	player.Registered = true

	saved, err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().UTC(), saved.CreatedOn)
	s.Equal(s.clock.Now().UTC(), saved.LastModifiedOn)

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.True(got.Registered)
}

func (s *MemoryStorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *MemoryStorageSuite) TestResaveKeepsCreatedOn() {
	player := model.NewAnonymousPlayer("p1", "Alice")
	first, err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	player.Online = true
	second, err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	s.Equal(first.CreatedOn, second.CreatedOn)
	s.True(second.LastModifiedOn.After(first.LastModifiedOn))
}

func (s *MemoryStorageSuite) TestReturnedRecordsAreCopies() {
	player := model.NewAnonymousPlayer("p1", "Alice")
	player.JoinChannel("global")
	_, err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	got.DisplayName = "Mallory"
	got.Channels[0] = "hijacked"

	fresh, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", fresh.DisplayName)
	s.Equal([]model.ChannelID{"global"}, fresh.Channels)
}

func (s *MemoryStorageSuite) TestDeletePlayer() {
	player := model.NewAnonymousPlayer("p1", "Alice")
	_, err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "p1"))
	_, err = s.storage.GetPlayer(s.ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *MemoryStorageSuite) TestAllPlayers() {
	for _, id := range []model.PlayerID{"p1", "p2", "p3"} {
		_, err := s.storage.SavePlayer(s.ctx, model.NewAnonymousPlayer(id, string(id)))
		s.Require().NoError(err)
	}

	players, err := s.storage.AllPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 3)
}

func (s *MemoryStorageSuite) TestSaveAndGetChannel() {
	channel := &model.Channel{ID: "trade", Description: "trading", OwnerID: "p1"}
	_, err := s.storage.SaveChannel(s.ctx, channel)
	s.Require().NoError(err)

	got, err := s.storage.GetChannel(s.ctx, "trade")
	s.Require().NoError(err)
	s.Equal("trading", got.Description)
	s.Equal(model.PlayerID("p1"), got.OwnerID)
}

func (s *MemoryStorageSuite) TestDeleteChannel() {
	_, err := s.storage.SaveChannel(s.ctx, &model.Channel{ID: "trade"})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.DeleteChannel(s.ctx, "trade"))
	_, err = s.storage.GetChannel(s.ctx, "trade")
	s.ErrorIs(err, model.ErrChannelNotFound)
}
