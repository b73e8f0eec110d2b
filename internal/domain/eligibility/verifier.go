package eligibility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const (
	reasonCredentialUnavailable = "token/credential unavailable"
	reasonDependencyUnavailable = "external dependency unavailable"
	reasonInternalError         = "internal error"
)

type Verification struct {
	Valid   bool
	Status  entity.EntryStatus
	Results []entity.RequirementResult
}

type Verifier struct {
	entryRepo       repository.EntryRepository
	discordProvider DiscordFactsProvider
	solanaProvider  SolanaFactsProvider

	now func() time.Time
}

func NewVerifier(
	entryRepo repository.EntryRepository,
	discordProvider DiscordFactsProvider,
	solanaProvider SolanaFactsProvider,
) *Verifier {
	return &Verifier{
		entryRepo:       entryRepo,
		discordProvider: discordProvider,
		solanaProvider:  solanaProvider,
		now:             time.Now,
	}
}

type decodedRequirement struct {
	requirement entity.Requirement
	config      Config
	decodeErr   error
}

// Verify evaluates the requirements against the entry and persists the new
// status. If no requirement domain could be evaluated the entry keeps its
// status and an ExternalDependency error is returned.
func (v *Verifier) Verify(
	ctx context.Context, guildID string, entry *entity.Entry, requirements []entity.Requirement,
) (*Verification, error) {
	verification, err := v.Evaluate(ctx, guildID, entry, requirements)
	if err != nil {
		return nil, err
	}

	verifiedAt := v.now()
	err = v.entryRepo.UpdateVerification(ctx, entry.ID, verification.Status, verification.Results, verifiedAt)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update entry status: %v", err)
		return nil, errorx.Unknown
	}

	entry.Status = verification.Status
	entry.VerificationResult = verification.Results
	entry.VerifiedAt = sql.NullTime{Valid: true, Time: verifiedAt}
	return verification, nil
}

// Evaluate is Verify without persistence.
func (v *Verifier) Evaluate(
	ctx context.Context, guildID string, entry *entity.Entry, requirements []entity.Requirement,
) (*Verification, error) {
	byDomain := map[Domain][]decodedRequirement{}
	ordered := []decodedRequirement{}
	for _, req := range requirements {
		cfg, err := DecodeConfig(req.Type, req.Config)
		if errors.Is(err, ErrUnknownRequirementType) {
			xcontext.Logger(ctx).Warnf("Ignore requirement %s of unknown type %s", req.ID, req.Type)
			continue
		}

		d := decodedRequirement{requirement: req, config: cfg, decodeErr: err}
		ordered = append(ordered, d)
		if err == nil {
			byDomain[cfg.Domain()] = append(byDomain[cfg.Domain()], d)
		}
	}

	facts := Facts{
		Now:           v.now(),
		DiscordUserID: entry.DiscordUserID,
		TokenBalances: map[string]float64{},
		NFTCounts:     map[string]int{},
	}

	// Each domain fetches its facts once, concurrently with the other domain.
	domainErrs := map[Domain]error{}
	var mutex sync.Mutex
	setDomainErr := func(d Domain, err error) {
		mutex.Lock()
		defer mutex.Unlock()
		domainErrs[d] = err
	}

	timeout := xcontext.Configs(ctx).Verification.FetchTimeout
	eg := errgroup.Group{}
	if reqs := byDomain[DomainDiscord]; len(reqs) > 0 {
		eg.Go(func() error {
			membership, err := v.fetchDiscordFacts(ctx, timeout, guildID, entry, reqs)
			if err != nil {
				setDomainErr(DomainDiscord, err)
				return nil
			}

			facts.Membership = membership
			return nil
		})
	}

	var solanaFacts *Facts
	if reqs := byDomain[DomainSolana]; len(reqs) > 0 {
		eg.Go(func() error {
			fetched, err := v.fetchSolanaFacts(ctx, timeout, entry.WalletAddress, reqs)
			if err != nil {
				setDomainErr(DomainSolana, err)
				return nil
			}

			solanaFacts = fetched
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fetch facts: %v", err)
		return nil, errorx.Unknown
	}

	if solanaFacts != nil {
		facts.TokenBalances = solanaFacts.TokenBalances
		facts.NFTCounts = solanaFacts.NFTCounts
	}

	if len(byDomain) > 0 && len(domainErrs) == len(byDomain) {
		for d, err := range domainErrs {
			xcontext.Logger(ctx).Warnf("Cannot fetch %s facts of entry %s: %v", d, entry.ID, err)
		}

		return nil, errorx.New(errorx.ExternalDependency,
			"Cannot verify entry, all requirement checks are unavailable")
	}

	verification := &Verification{Valid: true, Results: []entity.RequirementResult{}}
	for _, d := range ordered {
		var result Result
		switch {
		case d.decodeErr != nil:
			result = fail("Invalid requirement config: %v", d.decodeErr)

		case domainErrs[d.config.Domain()] != nil:
			err := domainErrs[d.config.Domain()]
			xcontext.Logger(ctx).Warnf("Requirement %s failed closed: %v", d.requirement.ID, err)
			if errors.Is(err, ErrCredentialUnavailable) {
				result = fail(reasonCredentialUnavailable)
			} else {
				result = fail(reasonDependencyUnavailable)
			}

		default:
			result = v.safeEvaluate(ctx, d, facts)
		}

		verification.Valid = verification.Valid && result.Valid
		verification.Results = append(verification.Results, entity.RequirementResult{
			RequirementID: d.requirement.ID,
			Type:          d.requirement.Type,
			Valid:         result.Valid,
			Reason:        result.Reason,
		})
	}

	verification.Status = entity.EntryStatusInvalid
	if verification.Valid {
		verification.Status = entity.EntryStatusValid
	}

	return verification, nil
}

func (v *Verifier) safeEvaluate(ctx context.Context, d decodedRequirement, facts Facts) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			xcontext.Logger(ctx).Errorf("Evaluator of requirement %s (%s) panicked: %v",
				d.requirement.ID, d.requirement.Type, r)
			result = fail(reasonInternalError)
		}
	}()

	return d.config.Evaluate(facts)
}

func (v *Verifier) fetchDiscordFacts(
	ctx context.Context,
	timeout time.Duration,
	guildID string,
	entry *entity.Entry,
	reqs []decodedRequirement,
) (*DiscordMembership, error) {
	needMembership := false
	for _, d := range reqs {
		if d.config.Type() != entity.RequirementDiscordAccountAge {
			needMembership = true
			break
		}
	}

	if !needMembership {
		return nil, nil
	}

	if entry.DiscordUserID == "" {
		return nil, fmt.Errorf("%w: discord account is not linked", ErrCredentialUnavailable)
	}

	if guildID == "" {
		return nil, errors.New("community has no discord server")
	}

	if v.discordProvider == nil {
		return nil, fmt.Errorf("%w: no discord provider", ErrCredentialUnavailable)
	}

	ctx, cancel := withOptionalTimeout(ctx, timeout)
	defer cancel()

	membership, err := v.discordProvider.GetGuildMembership(ctx, guildID, entry.DiscordUserID)
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

func (v *Verifier) fetchSolanaFacts(
	ctx context.Context,
	timeout time.Duration,
	wallet string,
	reqs []decodedRequirement,
) (*Facts, error) {
	if v.solanaProvider == nil {
		return nil, fmt.Errorf("%w: no solana provider", ErrCredentialUnavailable)
	}

	ctx, cancel := withOptionalTimeout(ctx, timeout)
	defer cancel()

	facts := &Facts{TokenBalances: map[string]float64{}, NFTCounts: map[string]int{}}
	var mutex sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	seen := map[string]bool{}
	for _, d := range reqs {
		switch cfg := d.config.(type) {
		case SolanaTokenBalanceConfig:
			key := "token:" + cfg.Mint
			if seen[key] {
				continue
			}
			seen[key] = true

			eg.Go(func() error {
				balance, err := v.solanaProvider.GetTokenBalance(egCtx, wallet, cfg.Mint)
				if err != nil {
					return err
				}

				mutex.Lock()
				facts.TokenBalances[cfg.Mint] = balance
				mutex.Unlock()
				return nil
			})

		case SolanaNFTOwnershipConfig:
			key := "nft:" + cfg.CollectionMint
			if seen[key] {
				continue
			}
			seen[key] = true

			eg.Go(func() error {
				count, err := v.solanaProvider.GetNFTOwnershipCount(egCtx, wallet, cfg.CollectionMint)
				if err != nil {
					return err
				}

				mutex.Lock()
				facts.NFTCounts[cfg.CollectionMint] = count
				mutex.Unlock()
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return facts, nil
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
