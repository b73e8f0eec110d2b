package eligibility

import "context"

type MockDiscordFactsProvider struct {
	GetGuildMembershipFunc func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error)
	GetGuildRolesFunc      func(ctx context.Context, guildID string) ([]GuildRole, error)
}

func (m *MockDiscordFactsProvider) GetGuildMembership(
	ctx context.Context, guildID, discordUserID string,
) (DiscordMembership, error) {
	if m.GetGuildMembershipFunc != nil {
		return m.GetGuildMembershipFunc(ctx, guildID, discordUserID)
	}

	return DiscordMembership{}, nil
}

func (m *MockDiscordFactsProvider) GetGuildRoles(ctx context.Context, guildID string) ([]GuildRole, error) {
	if m.GetGuildRolesFunc != nil {
		return m.GetGuildRolesFunc(ctx, guildID)
	}

	return nil, nil
}

type MockSolanaFactsProvider struct {
	GetTokenBalanceFunc      func(ctx context.Context, wallet, mint string) (float64, error)
	GetNFTOwnershipCountFunc func(ctx context.Context, wallet, collectionMint string) (int, error)
}

func (m *MockSolanaFactsProvider) GetTokenBalance(ctx context.Context, wallet, mint string) (float64, error) {
	if m.GetTokenBalanceFunc != nil {
		return m.GetTokenBalanceFunc(ctx, wallet, mint)
	}

	return 0, nil
}

func (m *MockSolanaFactsProvider) GetNFTOwnershipCount(
	ctx context.Context, wallet, collectionMint string,
) (int, error) {
	if m.GetNFTOwnershipCountFunc != nil {
		return m.GetNFTOwnershipCountFunc(ctx, wallet, collectionMint)
	}

	return 0, nil
}
