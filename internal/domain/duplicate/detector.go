package duplicate

import (
	"context"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/xcontext"
)

type Report struct {
	Analyses      []Analysis
	DiscordGroups []DiscordGroup
}

type Detector struct {
	entryRepo repository.EntryRepository
}

func NewDetector(entryRepo repository.EntryRepository) *Detector {
	return &Detector{entryRepo: entryRepo}
}

// AnalyzeEvent runs every duplicate rule over the entries of the event with
// the policy of the current configuration.
func (d *Detector) AnalyzeEvent(ctx context.Context, event *entity.Event) (*Report, error) {
	entries, err := d.entryRepo.GetByEventID(ctx, event.ID, repository.GetEntriesFilter{})
	if err != nil {
		return nil, err
	}

	wallets := make([]string, 0, len(entries))
	for _, e := range entries {
		wallets = append(wallets, e.WalletAddress)
	}

	otherEntries, err := d.entryRepo.GetByWalletsInOtherEvents(ctx, event.CommunityID, event.ID, wallets)
	if err != nil {
		return nil, err
	}

	policy := PolicyFromConfig(xcontext.Configs(ctx).Duplicate)
	return &Report{
		Analyses:      Analyze(policy, entries, otherEntries),
		DiscordGroups: GroupByDiscord(entries),
	}, nil
}
