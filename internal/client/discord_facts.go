package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type discordFactsCaller struct {
	endpoint   discord.IEndpoint
	oauth2Repo repository.OAuth2Repository
}

func NewDiscordFactsCaller(
	endpoint discord.IEndpoint,
	oauth2Repo repository.OAuth2Repository,
) *discordFactsCaller {
	return &discordFactsCaller{endpoint: endpoint, oauth2Repo: oauth2Repo}
}

// GetGuildMembership reads the member with the access token of the linked
// account first, then falls back to the bot token.
func (c *discordFactsCaller) GetGuildMembership(
	ctx context.Context, guildID, discordUserID string,
) (eligibility.DiscordMembership, error) {
	accessToken, err := c.userAccessToken(ctx, discordUserID)
	if err != nil {
		return eligibility.DiscordMembership{}, err
	}

	if accessToken != "" {
		member, err := c.endpoint.GetCurrentMember(ctx, guildID, accessToken)
		if err == nil {
			return toMembership(member), nil
		}

		if errors.Is(err, discord.ErrMemberNotFound) {
			return eligibility.DiscordMembership{IsMember: false}, nil
		}

		if !c.endpoint.HasBotToken() {
			return eligibility.DiscordMembership{}, rateLimitError(ctx, err)
		}

		xcontext.Logger(ctx).Warnf("Cannot get member with user token, fallback to bot: %v", err)
	}

	if !c.endpoint.HasBotToken() {
		return eligibility.DiscordMembership{}, fmt.Errorf(
			"%w: neither user access token nor bot token", eligibility.ErrCredentialUnavailable)
	}

	member, err := c.endpoint.GetMember(ctx, guildID, discordUserID)
	if err != nil {
		if errors.Is(err, discord.ErrMemberNotFound) {
			return eligibility.DiscordMembership{IsMember: false}, nil
		}

		return eligibility.DiscordMembership{}, rateLimitError(ctx, err)
	}

	return toMembership(member), nil
}

// rateLimitError annotates a rate limited error with its reset time.
func rateLimitError(ctx context.Context, err error) error {
	resetAt, ok := discord.IsRateLimit(err)
	if !ok {
		return err
	}

	xcontext.Logger(ctx).Warnf("Discord is rate limited until %s", resetAt.Format(time.RFC3339))
	return fmt.Errorf("rate limited until %s: %w", resetAt.UTC().Format(time.RFC3339), err)
}

// GetGuildRoles lists the roles of the guild, it needs the bot token.
func (c *discordFactsCaller) GetGuildRoles(ctx context.Context, guildID string) ([]eligibility.GuildRole, error) {
	if !c.endpoint.HasBotToken() {
		return nil, fmt.Errorf("%w: no bot token", eligibility.ErrCredentialUnavailable)
	}

	roles, err := c.endpoint.GetRoles(ctx, guildID)
	if err != nil {
		return nil, rateLimitError(ctx, err)
	}

	result := make([]eligibility.GuildRole, 0, len(roles))
	for _, r := range roles {
		result = append(result, eligibility.GuildRole{ID: r.ID, Name: r.Name, Position: r.Position})
	}

	return result, nil
}

func (c *discordFactsCaller) userAccessToken(ctx context.Context, discordUserID string) (string, error) {
	if c.oauth2Repo == nil {
		return "", nil
	}

	service := xcontext.Configs(ctx).Discord.ServiceName
	oauth2, err := c.oauth2Repo.GetByServiceUserID(ctx, service, discordUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}

		return "", err
	}

	return oauth2.AccessToken, nil
}

func toMembership(member discord.Member) eligibility.DiscordMembership {
	return eligibility.DiscordMembership{
		IsMember: true,
		RoleIDs:  member.Roles,
		JoinedAt: member.JoinedAt,
	}
}
