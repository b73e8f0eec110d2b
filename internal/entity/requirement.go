package entity

import "github.com/droplabz/backend/pkg/enum"

type RequirementType string

var (
	RequirementDiscordMember        = enum.New(RequirementType("DISCORD_MEMBER_REQUIRED"))
	RequirementDiscordRole          = enum.New(RequirementType("DISCORD_ROLE_REQUIRED"))
	RequirementDiscordAccountAge    = enum.New(RequirementType("DISCORD_ACCOUNT_AGE"))
	RequirementDiscordServerJoinAge = enum.New(RequirementType("DISCORD_SERVER_JOIN_AGE"))
	RequirementSolanaTokenBalance   = enum.New(RequirementType("SOLANA_TOKEN_BALANCE"))
	RequirementSolanaNFTOwnership   = enum.New(RequirementType("SOLANA_NFT_OWNERSHIP"))
)

type Requirement struct {
	Base

	EventID string `gorm:"index;size:36"`
	Event   Event  `gorm:"foreignKey:EventID"`

	Type   RequirementType
	Config Map
}
