package eligibility

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(discordProvider DiscordFactsProvider, solanaProvider SolanaFactsProvider) *Verifier {
	return NewVerifier(repository.NewEntryRepository(), discordProvider, solanaProvider)
}

func memberProvider(roles ...string) *MockDiscordFactsProvider {
	return &MockDiscordFactsProvider{
		GetGuildMembershipFunc: func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error) {
			return DiscordMembership{IsMember: true, RoleIDs: roles, JoinedAt: time.Now().Add(-time.Hour)}, nil
		},
	}
}

func pendingEntry(ctx context.Context, eventID string) entity.Entry {
	return testutil.SampleEntry(ctx, entity.Entry{
		EventID:       eventID,
		DiscordUserID: discord.SnowflakeAt(time.Now().Add(-100 * 24 * time.Hour)),
		Status:        entity.EntryStatusPending,
	})
}

func Test_Verifier_RolePassAndIdempotent(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	req := testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordRole,
		entity.Map{"roleIds": []string{"R1", "R2"}})
	entry := pendingEntry(ctx, event.ID)

	verifier := newTestVerifier(memberProvider("R2"), nil)

	first, err := verifier.Verify(ctx, "guild", &entry, []entity.Requirement{req})
	require.NoError(t, err)
	require.True(t, first.Valid)
	require.Equal(t, entity.EntryStatusValid, first.Status)

	second, err := verifier.Verify(ctx, "guild", &entry, []entity.Requirement{req})
	require.NoError(t, err)
	require.Equal(t, first, second)

	stored, err := repository.NewEntryRepository().GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entity.EntryStatusValid, stored.Status)
	require.True(t, stored.VerifiedAt.Valid)
	require.True(t, entry.VerifiedAt.Valid)
	require.WithinDuration(t, entry.VerifiedAt.Time, stored.VerifiedAt.Time, time.Second)
	require.Len(t, stored.VerificationResult, 1)
	require.Equal(t, req.ID, stored.VerificationResult[0].RequirementID)
}

func Test_Verifier_MissingRole(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	req := testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordRole,
		entity.Map{"roleIds": []string{"R1", "R2"}})
	entry := pendingEntry(ctx, event.ID)

	verification, err := newTestVerifier(memberProvider("R3"), nil).
		Verify(ctx, "guild", &entry, []entity.Requirement{req})
	require.NoError(t, err)
	require.False(t, verification.Valid)
	require.Equal(t, entity.EntryStatusInvalid, entry.Status)
	require.Contains(t, verification.Results[0].Reason, "Missing required role")
}

func Test_Verifier_AccountAgeNeedsNoFetch(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	now := time.Now()
	entry := testutil.SampleEntry(ctx, entity.Entry{
		EventID:       event.ID,
		DiscordUserID: discord.SnowflakeAt(now.Add(-10*24*time.Hour - time.Hour)),
		Status:        entity.EntryStatusPending,
	})

	provider := &MockDiscordFactsProvider{
		GetGuildMembershipFunc: func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error) {
			t.Fatal("membership must not be fetched")
			return DiscordMembership{}, nil
		},
	}
	verifier := newTestVerifier(provider, nil)
	verifier.now = func() time.Time { return now }

	pass := testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordAccountAge, entity.Map{"minDays": 7})
	verification, err := verifier.Verify(ctx, "", &entry, []entity.Requirement{pass})
	require.NoError(t, err)
	require.True(t, verification.Valid)

	failed := testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordAccountAge, entity.Map{"minDays": 30})
	verification, err = verifier.Verify(ctx, "", &entry, []entity.Requirement{pass, failed})
	require.NoError(t, err)
	require.False(t, verification.Valid)
	require.True(t, verification.Results[0].Valid)
	require.False(t, verification.Results[1].Valid)
	require.Contains(t, verification.Results[1].Reason, "10 days")
}

func Test_Verifier_Solana(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)
	mint := testutil.NewWallet()
	collection := testutil.NewWallet()

	calls := 0
	provider := &MockSolanaFactsProvider{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, m string) (float64, error) {
			require.Equal(t, entry.WalletAddress, wallet)
			require.Equal(t, mint, m)
			calls++
			return 100, nil
		},
		GetNFTOwnershipCountFunc: func(ctx context.Context, wallet, c string) (int, error) {
			return 1, nil
		},
	}

	reqs := []entity.Requirement{
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementSolanaTokenBalance,
			entity.Map{"mint": mint, "minAmount": 50}),
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementSolanaTokenBalance,
			entity.Map{"mint": mint, "minAmount": 150}),
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementSolanaNFTOwnership,
			entity.Map{"collectionMint": collection}),
	}

	verification, err := newTestVerifier(nil, provider).Verify(ctx, "guild", &entry, reqs)
	require.NoError(t, err)
	require.False(t, verification.Valid)
	require.True(t, verification.Results[0].Valid)
	require.False(t, verification.Results[1].Valid)
	require.True(t, verification.Results[2].Valid)
	require.Equal(t, 1, calls)
}

func Test_Verifier_CredentialUnavailable(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)

	discordProvider := &MockDiscordFactsProvider{
		GetGuildMembershipFunc: func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error) {
			return DiscordMembership{}, fmt.Errorf("%w: no token", ErrCredentialUnavailable)
		},
	}
	solanaProvider := &MockSolanaFactsProvider{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			return 10, nil
		},
	}

	reqs := []entity.Requirement{
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordMember, entity.Map{}),
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementSolanaTokenBalance,
			entity.Map{"mint": testutil.NewWallet(), "minAmount": 1}),
	}

	verification, err := newTestVerifier(discordProvider, solanaProvider).Verify(ctx, "guild", &entry, reqs)
	require.NoError(t, err)
	require.Equal(t, entity.EntryStatusInvalid, verification.Status)
	require.False(t, verification.Results[0].Valid)
	require.Equal(t, reasonCredentialUnavailable, verification.Results[0].Reason)
	require.True(t, verification.Results[1].Valid)
}

func Test_Verifier_AllDomainsUnavailable(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)

	discordProvider := &MockDiscordFactsProvider{
		GetGuildMembershipFunc: func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error) {
			return DiscordMembership{}, errors.New("connection refused")
		},
	}

	reqs := []entity.Requirement{
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordMember, entity.Map{}),
	}

	_, err := newTestVerifier(discordProvider, nil).Verify(ctx, "guild", &entry, reqs)
	require.True(t, errorx.Is(err, errorx.ExternalDependency))

	stored, err := repository.NewEntryRepository().GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entity.EntryStatusPending, stored.Status)
	require.False(t, stored.VerifiedAt.Valid)
}

func Test_Verifier_TimeoutFailsDomain(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)

	discordProvider := &MockDiscordFactsProvider{
		GetGuildMembershipFunc: func(ctx context.Context, guildID, discordUserID string) (DiscordMembership, error) {
			<-ctx.Done()
			return DiscordMembership{}, ctx.Err()
		},
	}
	solanaProvider := &MockSolanaFactsProvider{
		GetTokenBalanceFunc: func(ctx context.Context, wallet, mint string) (float64, error) {
			return 10, nil
		},
	}

	reqs := []entity.Requirement{
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordMember, entity.Map{}),
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementSolanaTokenBalance,
			entity.Map{"mint": testutil.NewWallet(), "minAmount": 1}),
	}

	verification, err := newTestVerifier(discordProvider, solanaProvider).Verify(ctx, "guild", &entry, reqs)
	require.NoError(t, err)
	require.False(t, verification.Valid)
	require.Equal(t, reasonDependencyUnavailable, verification.Results[0].Reason)
	require.True(t, verification.Results[1].Valid)
}

func Test_Verifier_UnknownAndInvalidConfig(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)

	reqs := []entity.Requirement{
		testutil.SampleRequirement(ctx, event.ID, "TWITTER_FOLLOW", entity.Map{}),
		testutil.SampleRequirement(ctx, event.ID, entity.RequirementDiscordRole, entity.Map{}),
	}

	verification, err := newTestVerifier(memberProvider(), nil).Verify(ctx, "guild", &entry, reqs)
	require.NoError(t, err)
	require.False(t, verification.Valid)
	require.Len(t, verification.Results, 1)
	require.Contains(t, verification.Results[0].Reason, "Invalid requirement config")
}

func Test_Verifier_NoRequirements(t *testing.T) {
	ctx := testutil.MockContext()
	event := testutil.SampleEvent(ctx, entity.Event{})
	entry := pendingEntry(ctx, event.ID)

	verification, err := newTestVerifier(nil, nil).Verify(ctx, "guild", &entry, nil)
	require.NoError(t, err)
	require.True(t, verification.Valid)
	require.Equal(t, entity.EntryStatusValid, entry.Status)
}

type panicConfig struct{ DiscordMemberConfig }

func (panicConfig) Evaluate(Facts) Result {
	panic("boom")
}

func Test_Verifier_SafeEvaluateRecoversPanic(t *testing.T) {
	ctx := testutil.MockContext()
	verifier := newTestVerifier(nil, nil)

	result := verifier.safeEvaluate(ctx, decodedRequirement{config: panicConfig{}}, Facts{})
	require.False(t, result.Valid)
	require.Equal(t, reasonInternalError, result.Reason)
}
