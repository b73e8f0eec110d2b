package client

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
)

type MockAnnouncer struct {
	AnnounceWinnersFunc func(
		ctx context.Context, guildID, channelID string, event *entity.Event, entries []entity.Entry,
	) (Announcement, error)
}

func (m *MockAnnouncer) AnnounceWinners(
	ctx context.Context, guildID, channelID string, event *entity.Event, entries []entity.Entry,
) (Announcement, error) {
	if m.AnnounceWinnersFunc != nil {
		return m.AnnounceWinnersFunc(ctx, guildID, channelID, event, entries)
	}

	return Announcement{}, nil
}
