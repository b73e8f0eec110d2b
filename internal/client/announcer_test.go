package client

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_discordAnnouncer_AnnounceWinners(t *testing.T) {
	var gotChannel, gotContent string
	announcer := NewDiscordAnnouncer(&discord.MockEndpoint{
		CreateMessageFunc: func(ctx context.Context, channelID, content string) (string, error) {
			gotChannel = channelID
			gotContent = content
			return "message-1", nil
		},
	})

	event := &entity.Event{Title: "Genesis mint"}
	entries := []entity.Entry{
		{WalletAddress: "wallet-A", DiscordUserID: "user-A"},
		{WalletAddress: "wallet-B"},
	}

	announcement, err := announcer.AnnounceWinners(context.Background(), "guild-1", "channel-1", event, entries)
	require.NoError(t, err)
	require.Equal(t, "message-1", announcement.MessageID)
	require.Equal(t, "https://discord.com/channels/guild-1/channel-1/message-1", announcement.URL)
	require.Equal(t, "channel-1", gotChannel)
	require.Equal(t,
		":tada: **Genesis mint** winners (2):\n1. `wallet-A` <@user-A>\n2. `wallet-B`\n",
		gotContent)
}

func Test_discordAnnouncer_NoChannel(t *testing.T) {
	announcer := NewDiscordAnnouncer(&discord.MockEndpoint{})

	_, err := announcer.AnnounceWinners(context.Background(), "guild-1", "", &entity.Event{}, nil)
	require.Error(t, err)
}

func Test_discordAnnouncer_ManyWinners(t *testing.T) {
	var gotContent string
	announcer := NewDiscordAnnouncer(&discord.MockEndpoint{
		CreateMessageFunc: func(ctx context.Context, channelID, content string) (string, error) {
			gotContent = content
			return "message-1", nil
		},
	})

	entries := make([]entity.Entry, 30)
	for i := range entries {
		entries[i] = entity.Entry{
			WalletAddress: testutil.NewWallet(),
			DiscordUserID: "110000000000000" + strconv.Itoa(1000+i),
		}
	}

	_, err := announcer.AnnounceWinners(context.Background(), "guild-1", "channel-1",
		&entity.Event{Title: strings.Repeat("Genesis mint ", 10)}, entries)
	require.NoError(t, err)
	require.LessOrEqual(t, utf8.RuneCountInString(gotContent), 2000)
	require.Contains(t, gotContent, "winners (30):")
	require.Contains(t, gotContent, "\n20. `"+entries[19].WalletAddress+"`")
	require.NotContains(t, gotContent, entries[20].WalletAddress)
	require.True(t, strings.HasSuffix(gotContent, "...and 10 more\n"))
}

func Test_renderAnnouncement_LongTitle(t *testing.T) {
	entries := make([]entity.Entry, 5)
	for i := range entries {
		entries[i] = entity.Entry{WalletAddress: testutil.NewWallet()}
	}

	content, err := renderAnnouncement(strings.Repeat("x", 1850), entries)
	require.NoError(t, err)
	require.LessOrEqual(t, utf8.RuneCountInString(content), 2000)
	require.Contains(t, content, "more\n")
}
