package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/dateutil"
	"golang.org/x/exp/slices"
)

// Result is the verdict of one requirement.
type Result struct {
	Valid  bool
	Reason string
}

func pass() Result {
	return Result{Valid: true}
}

func fail(format string, a ...any) Result {
	return Result{Valid: false, Reason: fmt.Sprintf(format, a...)}
}

// DiscordMembership is the state of a user in a Discord server.
type DiscordMembership struct {
	IsMember bool
	RoleIDs  []string
	JoinedAt time.Time
}

// Facts holds every external fact needed by the evaluators. Evaluators never
// fetch anything by themselves.
type Facts struct {
	Now time.Time

	DiscordUserID string
	Membership    *DiscordMembership

	// Token balances (decimal adjusted) indexed by mint address.
	TokenBalances map[string]float64

	// Number of owned NFTs indexed by collection mint address.
	NFTCounts map[string]int
}

func EvaluateDiscordMember(facts Facts, _ DiscordMemberConfig) Result {
	if facts.Membership == nil || !facts.Membership.IsMember {
		return fail("Not a member of the Discord server")
	}

	return pass()
}

func EvaluateDiscordRole(facts Facts, cfg DiscordRoleConfig) Result {
	if len(cfg.RoleIDs) == 0 {
		return fail("Invalid requirement config: no role ids")
	}

	if facts.Membership == nil || !facts.Membership.IsMember {
		return fail("Not a member of the Discord server, missing required role")
	}

	for _, roleID := range cfg.RoleIDs {
		if slices.Contains(facts.Membership.RoleIDs, roleID) {
			return pass()
		}
	}

	return fail("Missing required role (one of %s)", strings.Join(cfg.RoleIDs, ", "))
}

func EvaluateDiscordAccountAge(facts Facts, cfg DiscordAccountAgeConfig) Result {
	if facts.DiscordUserID == "" {
		return fail("Discord account is not linked")
	}

	createdAt, err := discord.SnowflakeTime(facts.DiscordUserID)
	if err != nil {
		return fail("Invalid Discord user id %s", facts.DiscordUserID)
	}

	days := dateutil.DaysSince(createdAt, facts.Now)
	if days < cfg.MinDays {
		return fail("Discord account is %d days old, required at least %d days", days, cfg.MinDays)
	}

	return pass()
}

func EvaluateDiscordServerJoinAge(facts Facts, cfg DiscordServerJoinAgeConfig) Result {
	if facts.Membership == nil || !facts.Membership.IsMember {
		return fail("Not a member of the Discord server")
	}

	if facts.Membership.JoinedAt.IsZero() {
		return fail("Unknown join date of the Discord server")
	}

	days := dateutil.DaysSince(facts.Membership.JoinedAt, facts.Now)
	if days < cfg.MinDays {
		return fail("Joined the Discord server %d days ago, required at least %d days", days, cfg.MinDays)
	}

	return pass()
}

func EvaluateSolanaTokenBalance(facts Facts, cfg SolanaTokenBalanceConfig) Result {
	balance, ok := facts.TokenBalances[cfg.Mint]
	if !ok {
		return fail("Unknown balance of token %s", cfg.Mint)
	}

	if balance < cfg.MinAmount {
		return fail("Insufficient balance of token %s: %v, required %v", cfg.Mint, balance, cfg.MinAmount)
	}

	return pass()
}

func EvaluateSolanaNFTOwnership(facts Facts, cfg SolanaNFTOwnershipConfig) Result {
	minCount := cfg.MinCount
	if minCount <= 0 {
		minCount = 1
	}

	count, ok := facts.NFTCounts[cfg.CollectionMint]
	if !ok {
		return fail("Unknown NFT ownership of collection %s", cfg.CollectionMint)
	}

	if count < minCount {
		return fail("Owns %d NFT from collection %s, required %d", count, cfg.CollectionMint, minCount)
	}

	return pass()
}

func (c DiscordMemberConfig) Evaluate(facts Facts) Result {
	return EvaluateDiscordMember(facts, c)
}

func (c DiscordRoleConfig) Evaluate(facts Facts) Result {
	return EvaluateDiscordRole(facts, c)
}

func (c DiscordAccountAgeConfig) Evaluate(facts Facts) Result {
	return EvaluateDiscordAccountAge(facts, c)
}

func (c DiscordServerJoinAgeConfig) Evaluate(facts Facts) Result {
	return EvaluateDiscordServerJoinAge(facts, c)
}

func (c SolanaTokenBalanceConfig) Evaluate(facts Facts) Result {
	return EvaluateSolanaTokenBalance(facts, c)
}

func (c SolanaNFTOwnershipConfig) Evaluate(facts Facts) Result {
	return EvaluateSolanaNFTOwnership(facts, c)
}
