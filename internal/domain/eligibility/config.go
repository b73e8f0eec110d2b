package eligibility

import (
	"errors"
	"fmt"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/solanautil"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

type Domain string

const (
	DomainDiscord Domain = "discord"
	DomainSolana  Domain = "solana"
)

var ErrUnknownRequirementType = errors.New("unknown requirement type")

// Config is the typed configuration of one requirement. Each requirement type
// has exactly one implementation.
type Config interface {
	Type() entity.RequirementType
	Domain() Domain
	Evaluate(facts Facts) Result
	Statement() string
}

type DiscordMemberConfig struct{}

type DiscordRoleConfig struct {
	RoleIDs []string `mapstructure:"roleIds" structs:"roleIds"`
}

type DiscordAccountAgeConfig struct {
	MinDays int `mapstructure:"minDays" structs:"minDays"`
}

type DiscordServerJoinAgeConfig struct {
	MinDays int `mapstructure:"minDays" structs:"minDays"`
}

type SolanaTokenBalanceConfig struct {
	Mint      string  `mapstructure:"mint" structs:"mint"`
	MinAmount float64 `mapstructure:"minAmount" structs:"minAmount"`
}

type SolanaNFTOwnershipConfig struct {
	CollectionMint string `mapstructure:"collectionMint" structs:"collectionMint"`
	MinCount       int    `mapstructure:"minCount" structs:"minCount"`
}

// DecodeConfig converts the stored config map of a requirement to its typed
// variant and validates it. It returns ErrUnknownRequirementType for types
// this version doesn't know.
func DecodeConfig(t entity.RequirementType, data map[string]any) (Config, error) {
	switch t {
	case entity.RequirementDiscordMember:
		return DiscordMemberConfig{}, nil

	case entity.RequirementDiscordRole:
		var cfg DiscordRoleConfig
		if err := decode(data, &cfg); err != nil {
			return nil, err
		}

		if len(cfg.RoleIDs) == 0 {
			return nil, errors.New("no role ids configured")
		}

		for _, id := range cfg.RoleIDs {
			if id == "" {
				return nil, errors.New("empty role id configured")
			}
		}

		return cfg, nil

	case entity.RequirementDiscordAccountAge:
		var cfg DiscordAccountAgeConfig
		if err := decodeMinDays(data, &cfg.MinDays); err != nil {
			return nil, err
		}

		return cfg, nil

	case entity.RequirementDiscordServerJoinAge:
		var cfg DiscordServerJoinAgeConfig
		if err := decodeMinDays(data, &cfg.MinDays); err != nil {
			return nil, err
		}

		return cfg, nil

	case entity.RequirementSolanaTokenBalance:
		var cfg SolanaTokenBalanceConfig
		if err := decode(data, &cfg); err != nil {
			return nil, err
		}

		if _, ok := data["minAmount"]; !ok {
			return nil, errors.New("no minimum amount configured")
		}

		if !solanautil.IsValidAddress(cfg.Mint) {
			return nil, fmt.Errorf("invalid token mint %q", cfg.Mint)
		}

		if cfg.MinAmount < 0 {
			return nil, errors.New("minimum amount must not be negative")
		}

		return cfg, nil

	case entity.RequirementSolanaNFTOwnership:
		var cfg SolanaNFTOwnershipConfig
		if err := decode(data, &cfg); err != nil {
			return nil, err
		}

		if !solanautil.IsValidAddress(cfg.CollectionMint) {
			return nil, fmt.Errorf("invalid collection mint %q", cfg.CollectionMint)
		}

		if cfg.MinCount == 0 {
			cfg.MinCount = 1
		}

		if cfg.MinCount < 0 {
			return nil, errors.New("minimum count must be positive")
		}

		return cfg, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownRequirementType, t)
}

// EncodeConfig converts a typed config back to the map stored in database.
func EncodeConfig(cfg Config) map[string]any {
	return structs.Map(cfg)
}

func decode(data map[string]any, v any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("malformed config: %w", err)
	}

	return nil
}

func decodeMinDays(data map[string]any, minDays *int) error {
	if _, ok := data["minDays"]; !ok {
		return errors.New("no minimum days configured")
	}

	var cfg struct {
		MinDays int `mapstructure:"minDays"`
	}
	if err := decode(data, &cfg); err != nil {
		return err
	}

	if cfg.MinDays < 0 {
		return errors.New("minimum days must not be negative")
	}

	*minDays = cfg.MinDays
	return nil
}

func (DiscordMemberConfig) Type() entity.RequirementType {
	return entity.RequirementDiscordMember
}

func (DiscordRoleConfig) Type() entity.RequirementType {
	return entity.RequirementDiscordRole
}

func (DiscordAccountAgeConfig) Type() entity.RequirementType {
	return entity.RequirementDiscordAccountAge
}

func (DiscordServerJoinAgeConfig) Type() entity.RequirementType {
	return entity.RequirementDiscordServerJoinAge
}

func (SolanaTokenBalanceConfig) Type() entity.RequirementType {
	return entity.RequirementSolanaTokenBalance
}

func (SolanaNFTOwnershipConfig) Type() entity.RequirementType {
	return entity.RequirementSolanaNFTOwnership
}

func (DiscordMemberConfig) Domain() Domain        { return DomainDiscord }
func (DiscordRoleConfig) Domain() Domain          { return DomainDiscord }
func (DiscordAccountAgeConfig) Domain() Domain    { return DomainDiscord }
func (DiscordServerJoinAgeConfig) Domain() Domain { return DomainDiscord }
func (SolanaTokenBalanceConfig) Domain() Domain   { return DomainSolana }
func (SolanaNFTOwnershipConfig) Domain() Domain   { return DomainSolana }

func (DiscordMemberConfig) Statement() string {
	return "Must be a member of the Discord server"
}

func (c DiscordRoleConfig) Statement() string {
	return fmt.Sprintf("Must have one of the Discord roles %v", c.RoleIDs)
}

func (c DiscordAccountAgeConfig) Statement() string {
	return fmt.Sprintf("Discord account must be %d+ days old", c.MinDays)
}

func (c DiscordServerJoinAgeConfig) Statement() string {
	return fmt.Sprintf("Must have joined the Discord server %d+ days ago", c.MinDays)
}

func (c SolanaTokenBalanceConfig) Statement() string {
	return fmt.Sprintf("Hold at least %v tokens of %s", c.MinAmount, c.Mint)
}

func (c SolanaNFTOwnershipConfig) Statement() string {
	return fmt.Sprintf("Own at least %d NFT from collection %s", c.MinCount, c.CollectionMint)
}
