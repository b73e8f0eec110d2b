package eligibility

import (
	"strings"
	"testing"
	"time"

	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/stretchr/testify/require"
)

func memberFacts(roles ...string) Facts {
	return Facts{
		Now:        time.Now(),
		Membership: &DiscordMembership{IsMember: true, RoleIDs: roles},
	}
}

func TestEvaluateDiscordRole(t *testing.T) {
	cfg := DiscordRoleConfig{RoleIDs: []string{"R1", "R2"}}

	require.True(t, EvaluateDiscordRole(memberFacts("R2"), cfg).Valid)

	result := EvaluateDiscordRole(memberFacts("R3"), cfg)
	require.False(t, result.Valid)
	require.Contains(t, strings.ToLower(result.Reason), "missing required role")

	result = EvaluateDiscordRole(Facts{Membership: &DiscordMembership{}}, cfg)
	require.False(t, result.Valid)
}

func TestEvaluateDiscordMember(t *testing.T) {
	require.True(t, EvaluateDiscordMember(memberFacts(), DiscordMemberConfig{}).Valid)
	require.False(t, EvaluateDiscordMember(Facts{}, DiscordMemberConfig{}).Valid)
}

func TestEvaluateDiscordAccountAge(t *testing.T) {
	now := time.Now()
	facts := Facts{
		Now:           now,
		DiscordUserID: discord.SnowflakeAt(now.Add(-10*24*time.Hour - time.Hour)),
	}

	require.True(t, EvaluateDiscordAccountAge(facts, DiscordAccountAgeConfig{MinDays: 7}).Valid)

	result := EvaluateDiscordAccountAge(facts, DiscordAccountAgeConfig{MinDays: 30})
	require.False(t, result.Valid)
	require.Contains(t, result.Reason, "10 days")

	result = EvaluateDiscordAccountAge(Facts{Now: now}, DiscordAccountAgeConfig{MinDays: 1})
	require.False(t, result.Valid)
}

func TestEvaluateDiscordServerJoinAge(t *testing.T) {
	now := time.Now()
	facts := Facts{
		Now:        now,
		Membership: &DiscordMembership{IsMember: true, JoinedAt: now.Add(-3*24*time.Hour - time.Minute)},
	}

	require.True(t, EvaluateDiscordServerJoinAge(facts, DiscordServerJoinAgeConfig{MinDays: 3}).Valid)

	result := EvaluateDiscordServerJoinAge(facts, DiscordServerJoinAgeConfig{MinDays: 4})
	require.False(t, result.Valid)
	require.Contains(t, result.Reason, "3 days")

	require.False(t, EvaluateDiscordServerJoinAge(Facts{Now: now}, DiscordServerJoinAgeConfig{}).Valid)
}

func TestEvaluateSolanaTokenBalance(t *testing.T) {
	facts := Facts{TokenBalances: map[string]float64{"mint": 5}}

	require.True(t, EvaluateSolanaTokenBalance(facts, SolanaTokenBalanceConfig{Mint: "mint", MinAmount: 5}).Valid)
	require.False(t, EvaluateSolanaTokenBalance(facts, SolanaTokenBalanceConfig{Mint: "mint", MinAmount: 5.1}).Valid)
	require.False(t, EvaluateSolanaTokenBalance(facts, SolanaTokenBalanceConfig{Mint: "other"}).Valid)
}

func TestEvaluateSolanaNFTOwnership(t *testing.T) {
	facts := Facts{NFTCounts: map[string]int{"collection": 2}}

	require.True(t, EvaluateSolanaNFTOwnership(facts, SolanaNFTOwnershipConfig{CollectionMint: "collection"}).Valid)
	require.True(t, EvaluateSolanaNFTOwnership(facts,
		SolanaNFTOwnershipConfig{CollectionMint: "collection", MinCount: 2}).Valid)
	require.False(t, EvaluateSolanaNFTOwnership(facts,
		SolanaNFTOwnershipConfig{CollectionMint: "collection", MinCount: 3}).Valid)
	require.False(t, EvaluateSolanaNFTOwnership(Facts{NFTCounts: map[string]int{"collection": 0}},
		SolanaNFTOwnershipConfig{CollectionMint: "collection"}).Valid)
}
