package eligibility

import (
	"context"
	"errors"
)

// ErrCredentialUnavailable is returned by providers when no token or
// credential can be used to fetch the facts.
var ErrCredentialUnavailable = errors.New("token/credential unavailable")

type DiscordFactsProvider interface {
	// GetGuildMembership returns the membership of the Discord user in the
	// guild. A user who is not a member is not an error.
	GetGuildMembership(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error)

	GetGuildRoles(ctx context.Context, guildID string) ([]GuildRole, error)
}

type GuildRole struct {
	ID       string
	Name     string
	Position int
}

type SolanaFactsProvider interface {
	GetTokenBalance(ctx context.Context, wallet, mint string) (float64, error)
	GetNFTOwnershipCount(ctx context.Context, wallet, collectionMint string) (int, error)
}
