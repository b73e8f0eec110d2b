package discord

import "context"

type IEndpoint interface {
	HasBotToken() bool
	GetMember(ctx context.Context, guildID, userID string) (Member, error)
	GetCurrentMember(ctx context.Context, guildID, accessToken string) (Member, error)
	GetRoles(ctx context.Context, guildID string) ([]Role, error)
	CreateMessage(ctx context.Context, channelID, content string) (string, error)
}
