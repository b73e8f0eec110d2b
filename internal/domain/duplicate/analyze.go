package duplicate

import (
	"fmt"
	"sort"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/dateutil"
)

const maxRiskScore = 100

type SignalType string

const (
	// SignalWalletReuse is reported when a wallet has more than one entry in
	// an event. The unique index of entries makes it unreachable today.
	SignalWalletReuse   SignalType = "WALLET_REUSE"
	SignalDiscordReuse  SignalType = "DISCORD_REUSE"
	SignalTimingPattern SignalType = "TIMING_PATTERN"
	SignalMultiEvent    SignalType = "MULTI_EVENT"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type Signal struct {
	Type            SignalType
	Severity        Severity
	Description     string
	RelatedEntryIDs []string
}

type Analysis struct {
	EntryID       string
	WalletAddress string
	DiscordUserID string

	IsPotentialDuplicate bool
	Signals              []Signal
	RiskScore            int
}

// Policy holds the scores and thresholds of the duplicate rules.
type Policy struct {
	DiscordReuseScore int
	TimingScore       int
	MultiEventScore   int

	// An entry is part of a timing pattern when at least TimingBurst other
	// entries were created within TimingWindow before or after it.
	TimingWindow time.Duration
	TimingBurst  int

	// A wallet is reused across events when it has at least MultiEventBurst
	// entries in the other events of the community.
	MultiEventBurst int
}

func PolicyFromConfig(cfg config.DuplicateConfigs) Policy {
	return Policy{
		DiscordReuseScore: cfg.DiscordReuseScore,
		TimingScore:       cfg.TimingScore,
		MultiEventScore:   cfg.MultiEventScore,
		TimingWindow:      cfg.TimingWindow,
		TimingBurst:       cfg.TimingBurst,
		MultiEventBurst:   cfg.MultiEventBurst,
	}
}

// Analyze scores every entry of one event. otherEventEntries are the entries
// of the same wallets in the other events of the community. The result is
// sorted by risk score descending, ties keep the order of entries.
func Analyze(policy Policy, entries []entity.Entry, otherEventEntries []entity.Entry) []Analysis {
	byDiscord := map[string][]entity.Entry{}
	for _, e := range entries {
		if e.DiscordUserID != "" {
			byDiscord[e.DiscordUserID] = append(byDiscord[e.DiscordUserID], e)
		}
	}

	byWallet := map[string][]string{}
	for _, e := range otherEventEntries {
		byWallet[e.WalletAddress] = append(byWallet[e.WalletAddress], e.ID)
	}

	neighbors := timingNeighbors(policy, entries)

	analyses := make([]Analysis, 0, len(entries))
	for _, entry := range entries {
		analysis := Analysis{
			EntryID:       entry.ID,
			WalletAddress: entry.WalletAddress,
			DiscordUserID: entry.DiscordUserID,
			Signals:       []Signal{},
		}

		if signal, ok := discordReuse(entry, byDiscord[entry.DiscordUserID]); ok {
			analysis.addSignal(signal, policy.DiscordReuseScore)
		}

		if related := byWallet[entry.WalletAddress]; policy.MultiEventBurst > 0 && len(related) >= policy.MultiEventBurst {
			analysis.addSignal(Signal{
				Type:            SignalMultiEvent,
				Severity:        SeverityLow,
				Description:     fmt.Sprintf("Wallet participated in %d other events from this community", len(related)),
				RelatedEntryIDs: related,
			}, policy.MultiEventScore)
		}

		if signal, ok := timingPattern(policy, neighbors[entry.ID]); ok {
			analysis.addSignal(signal, policy.TimingScore)
		}

		analysis.IsPotentialDuplicate = len(analysis.Signals) > 0
		analyses = append(analyses, analysis)
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].RiskScore > analyses[j].RiskScore
	})

	return analyses
}

func (a *Analysis) addSignal(signal Signal, score int) {
	a.Signals = append(a.Signals, signal)
	a.RiskScore += score
	if a.RiskScore > maxRiskScore {
		a.RiskScore = maxRiskScore
	}
}

func discordReuse(entry entity.Entry, sameDiscord []entity.Entry) (Signal, bool) {
	if entry.DiscordUserID == "" {
		return Signal{}, false
	}

	wallets := map[string]struct{}{entry.WalletAddress: {}}
	related := []string{}
	for _, other := range sameDiscord {
		if other.ID == entry.ID || other.WalletAddress == entry.WalletAddress {
			continue
		}

		wallets[other.WalletAddress] = struct{}{}
		related = append(related, other.ID)
	}

	if len(wallets) < 2 {
		return Signal{}, false
	}

	return Signal{
		Type:            SignalDiscordReuse,
		Severity:        SeverityHigh,
		Description:     fmt.Sprintf("Discord account used with %d different wallets in this event", len(wallets)),
		RelatedEntryIDs: related,
	}, true
}

// timingNeighbors returns, for every entry id, the ids of the other entries
// created within the timing window of it. Entries are swept once in creation
// order.
func timingNeighbors(policy Policy, entries []entity.Entry) map[string][]string {
	result := make(map[string][]string, len(entries))
	if policy.TimingBurst <= 0 {
		return result
	}

	sorted := make([]entity.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	lo, hi := 0, 0
	for i, entry := range sorted {
		for lo < i && !dateutil.WithinWindow(entry.CreatedAt, sorted[lo].CreatedAt, policy.TimingWindow) {
			lo++
		}

		if hi < i {
			hi = i
		}
		for hi+1 < len(sorted) && dateutil.WithinWindow(sorted[hi+1].CreatedAt, entry.CreatedAt, policy.TimingWindow) {
			hi++
		}

		related := make([]string, 0, hi-lo)
		for j := lo; j <= hi; j++ {
			if j != i {
				related = append(related, sorted[j].ID)
			}
		}

		result[entry.ID] = related
	}

	return result
}

func timingPattern(policy Policy, related []string) (Signal, bool) {
	if policy.TimingBurst <= 0 || len(related) < policy.TimingBurst {
		return Signal{}, false
	}

	return Signal{
		Type:            SignalTimingPattern,
		Severity:        SeverityMedium,
		Description:     fmt.Sprintf("%d entries submitted within %s of this entry", len(related), policy.TimingWindow),
		RelatedEntryIDs: related,
	}, true
}

// DiscordGroup is a Discord account linked to several wallets in one event.
type DiscordGroup struct {
	DiscordUserID string
	WalletCount   int
	EntryIDs      []string
}

// GroupByDiscord returns the Discord accounts used with at least two distinct
// wallets, ordered by Discord user id.
func GroupByDiscord(entries []entity.Entry) []DiscordGroup {
	groups := map[string]*DiscordGroup{}
	wallets := map[string]map[string]struct{}{}
	for _, e := range entries {
		if e.DiscordUserID == "" {
			continue
		}

		group, ok := groups[e.DiscordUserID]
		if !ok {
			group = &DiscordGroup{DiscordUserID: e.DiscordUserID}
			groups[e.DiscordUserID] = group
			wallets[e.DiscordUserID] = map[string]struct{}{}
		}

		group.EntryIDs = append(group.EntryIDs, e.ID)
		wallets[e.DiscordUserID][e.WalletAddress] = struct{}{}
	}

	result := []DiscordGroup{}
	for id, group := range groups {
		group.WalletCount = len(wallets[id])
		if group.WalletCount > 1 {
			result = append(result, *group)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DiscordUserID < result[j].DiscordUserID
	})

	return result
}
