package eligibility

import (
	"testing"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	mint := testutil.NewWallet()

	tests := []struct {
		name    string
		t       entity.RequirementType
		data    map[string]any
		want    Config
		wantErr bool
	}{
		{
			name: "member",
			t:    entity.RequirementDiscordMember,
			data: map[string]any{},
			want: DiscordMemberConfig{},
		},
		{
			name: "role",
			t:    entity.RequirementDiscordRole,
			data: map[string]any{"roleIds": []any{"R1", "R2"}},
			want: DiscordRoleConfig{RoleIDs: []string{"R1", "R2"}},
		},
		{
			name:    "role without ids",
			t:       entity.RequirementDiscordRole,
			data:    map[string]any{"roleIds": []any{}},
			wantErr: true,
		},
		{
			name: "account age from float",
			t:    entity.RequirementDiscordAccountAge,
			data: map[string]any{"minDays": float64(7)},
			want: DiscordAccountAgeConfig{MinDays: 7},
		},
		{
			name:    "account age without min days",
			t:       entity.RequirementDiscordAccountAge,
			data:    map[string]any{},
			wantErr: true,
		},
		{
			name:    "join age negative",
			t:       entity.RequirementDiscordServerJoinAge,
			data:    map[string]any{"minDays": -1},
			wantErr: true,
		},
		{
			name: "token balance",
			t:    entity.RequirementSolanaTokenBalance,
			data: map[string]any{"mint": mint, "minAmount": "2.5"},
			want: SolanaTokenBalanceConfig{Mint: mint, MinAmount: 2.5},
		},
		{
			name:    "token balance invalid mint",
			t:       entity.RequirementSolanaTokenBalance,
			data:    map[string]any{"mint": "not-a-mint", "minAmount": 1},
			wantErr: true,
		},
		{
			name:    "token balance without amount",
			t:       entity.RequirementSolanaTokenBalance,
			data:    map[string]any{"mint": mint},
			wantErr: true,
		},
		{
			name: "nft default count",
			t:    entity.RequirementSolanaNFTOwnership,
			data: map[string]any{"collectionMint": mint},
			want: SolanaNFTOwnershipConfig{CollectionMint: mint, MinCount: 1},
		},
		{
			name:    "malformed",
			t:       entity.RequirementDiscordAccountAge,
			data:    map[string]any{"minDays": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConfig(tt.t, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeConfig_UnknownType(t *testing.T) {
	_, err := DecodeConfig("TWITTER_FOLLOW", map[string]any{})
	require.ErrorIs(t, err, ErrUnknownRequirementType)
}

func TestEncodeConfig(t *testing.T) {
	cfg := DiscordRoleConfig{RoleIDs: []string{"R1"}}
	data := EncodeConfig(cfg)
	require.Equal(t, map[string]any{"roleIds": []string{"R1"}}, data)

	decoded, err := DecodeConfig(entity.RequirementDiscordRole, data)
	require.NoError(t, err)
	require.Equal(t, cfg, decoded)
}
