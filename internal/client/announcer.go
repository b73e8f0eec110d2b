package client

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/droplabz/backend/internal/common"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/api/discord"
)

const (
	// MaxAnnouncedWinners is the number of winners listed in one
	// announcement, the rest are summarized.
	MaxAnnouncedWinners = 20

	maxMessageLength = 2000
)

const announcementTemplate = `:tada: **{{.Title}}** winners ({{.Total}}):
{{range .Lines}}{{.Index}}. ` + "`{{.Wallet}}`" + `{{if .DiscordUserID}} <@{{.DiscordUserID}}>{{end}}
{{end}}{{if .More}}...and {{.More}} more
{{end}}`

type Announcement struct {
	MessageID string
	URL       string
}

type Announcer interface {
	AnnounceWinners(
		ctx context.Context, guildID, channelID string, event *entity.Event, entries []entity.Entry,
	) (Announcement, error)
}

type discordAnnouncer struct {
	endpoint discord.IEndpoint
}

func NewDiscordAnnouncer(endpoint discord.IEndpoint) *discordAnnouncer {
	return &discordAnnouncer{endpoint: endpoint}
}

// AnnounceWinners posts the winner list to the channel. At most
// MaxAnnouncedWinners winners are listed.
func (a *discordAnnouncer) AnnounceWinners(
	ctx context.Context, guildID, channelID string, event *entity.Event, entries []entity.Entry,
) (Announcement, error) {
	if guildID == "" || channelID == "" {
		return Announcement{}, errors.New("no channel to announce")
	}

	content, err := renderAnnouncement(event.Title, entries)
	if err != nil {
		return Announcement{}, err
	}

	messageID, err := a.endpoint.CreateMessage(ctx, channelID, content)
	if err != nil {
		return Announcement{}, err
	}

	return Announcement{
		MessageID: messageID,
		URL:       fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID),
	}, nil
}

func renderAnnouncement(title string, entries []entity.Entry) (string, error) {
	data := announcementData{Title: title, Total: len(entries)}
	for i, e := range entries {
		if i == MaxAnnouncedWinners {
			break
		}

		data.Lines = append(data.Lines, announcementLine{
			Index:         i + 1,
			Wallet:        e.WalletAddress,
			DiscordUserID: e.DiscordUserID,
		})
	}

	for {
		data.More = data.Total - len(data.Lines)
		content, err := common.ExecuteTemplate(announcementTemplate, data)
		if err != nil {
			return "", err
		}

		if utf8.RuneCountInString(content) <= maxMessageLength {
			return content, nil
		}

		if len(data.Lines) == 0 {
			return "", errors.New("announcement is too long")
		}

		data.Lines = data.Lines[:len(data.Lines)-1]
	}
}

type announcementData struct {
	Title string
	Total int
	More  int
	Lines []announcementLine
}

type announcementLine struct {
	Index         int
	Wallet        string
	DiscordUserID string
}
