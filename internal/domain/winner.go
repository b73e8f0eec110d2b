package domain

import (
	"context"
	"errors"

	"github.com/droplabz/backend/internal/client"
	"github.com/droplabz/backend/internal/common"
	"github.com/droplabz/backend/internal/domain/selection"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
)

type WinnerDomain interface {
	DrawWinners(context.Context, *model.DrawWinnersRequest) (*model.DrawWinnersResponse, error)
	PickWinners(context.Context, *model.PickWinnersRequest) (*model.PickWinnersResponse, error)
	GetWinners(context.Context, *model.GetWinnersRequest) (*model.GetWinnersResponse, error)
	AnnounceWinners(context.Context, *model.AnnounceWinnersRequest) (*model.AnnounceWinnersResponse, error)

	// Draw selects winners of the event on behalf of pickedBy. It is used by
	// the DrawWinners api and the auto draw job.
	Draw(ctx context.Context, event *entity.Event, opts selection.Options, pickedBy string) (*model.DrawWinnersResponse, error)
}

type winnerDomain struct {
	eventRepo     repository.EventRepository
	entryRepo     repository.EntryRepository
	winnerRepo    repository.WinnerRepository
	communityRepo repository.CommunityRepository
	auditLogRepo  repository.AuditLogRepository
	allocator     *winnerAllocator
}

func NewWinnerDomain(
	eventRepo repository.EventRepository,
	entryRepo repository.EntryRepository,
	winnerRepo repository.WinnerRepository,
	communityRepo repository.CommunityRepository,
	auditLogRepo repository.AuditLogRepository,
	notifier WinnerNotifier,
) *winnerDomain {
	return &winnerDomain{
		eventRepo:     eventRepo,
		entryRepo:     entryRepo,
		winnerRepo:    winnerRepo,
		communityRepo: communityRepo,
		auditLogRepo:  auditLogRepo,
		allocator: newWinnerAllocator(
			eventRepo, winnerRepo, communityRepo, notifier.Announcer, notifier.Publisher),
	}
}

func (d *winnerDomain) DrawWinners(
	ctx context.Context, req *model.DrawWinnersRequest,
) (*model.DrawWinnersResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	return d.Draw(ctx, event, selection.Options{
		Count:           req.Count,
		ExcludeEntryIDs: req.ExcludeEntryIDs,
	}, xcontext.RequestUserID(ctx))
}

func (d *winnerDomain) Draw(
	ctx context.Context, event *entity.Event, opts selection.Options, pickedBy string,
) (*model.DrawWinnersResponse, error) {
	if event.SelectionMode == entity.SelectionModeFCFS {
		return nil, errorx.New(errorx.InvalidSelectionMode,
			"Cannot manually draw winners for FCFS events (winners are auto-assigned)")
	}

	entries, err := d.entryRepo.GetByEventID(ctx, event.ID, repository.GetEntriesFilter{OnlyEligible: true})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get eligible entries: %v", err)
		return nil, errorx.Unknown
	}

	picked, err := d.pickedEntryIDs(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	drawn, err := selection.Draw(event, entries, picked, opts)
	if err != nil {
		return nil, err
	}

	winners, err := d.allocator.Create(ctx, event, drawn, pickedBy)
	if err != nil {
		return nil, d.allocationError(ctx, event, len(drawn), err)
	}

	d.allocator.Notify(ctx, event, winners, true)

	totalEligible := len(selection.EligiblePool(entries, picked, opts.ExcludeEntryIDs))
	slots := selection.SlotsOf(event, len(picked)+len(winners))
	return &model.DrawWinnersResponse{
		Winners:        convertWinners(winners),
		Count:          len(winners),
		TotalEligible:  totalEligible,
		RemainingSpots: slots.Available(),
	}, nil
}

func (d *winnerDomain) PickWinners(
	ctx context.Context, req *model.PickWinnersRequest,
) (*model.PickWinnersResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.SelectionMode == entity.SelectionModeFCFS {
		return nil, errorx.New(errorx.InvalidSelectionMode,
			"Cannot manually pick winners for FCFS events (winners are auto-assigned)")
	}

	found, err := d.entryRepo.GetByIDs(ctx, event.ID, req.EntryIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	picked, err := d.pickedEntryIDs(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	entries, err := selection.Pick(event, req.EntryIDs, found, picked)
	if err != nil {
		return nil, err
	}

	winners, err := d.allocator.Create(ctx, event, entries, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, d.allocationError(ctx, event, len(entries), err)
	}

	d.allocator.Notify(ctx, event, winners, true)

	return &model.PickWinnersResponse{Winners: convertWinners(winners), Count: len(winners)}, nil
}

func (d *winnerDomain) GetWinners(
	ctx context.Context, req *model.GetWinnersRequest,
) (*model.GetWinnersResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	winners, err := d.winnersWithEntries(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetWinnersResponse{Winners: convertWinners(winners), Count: len(winners)}, nil
}

// AnnounceWinners posts the winners of the event to a channel of the guild
// linked to the community.
func (d *winnerDomain) AnnounceWinners(
	ctx context.Context, req *model.AnnounceWinnersRequest,
) (*model.AnnounceWinnersResponse, error) {
	if _, err := discord.SnowflakeTime(req.ChannelID); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid Discord channel id")
	}

	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	winners, err := d.winnersWithEntries(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	if len(winners) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No winners selected yet")
	}

	community, err := d.communityRepo.GetByID(ctx, event.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	if community.GuildID == "" {
		return nil, errorx.New(errorx.BadRequest, "Discord guild not linked to community")
	}

	if d.allocator.announcer == nil {
		return nil, errorx.New(errorx.Unavailable, "Announcement is not available")
	}

	// Winners are listed in the order they were picked.
	entries := make([]entity.Entry, 0, len(winners))
	for i := len(winners) - 1; i >= 0; i-- {
		entries = append(entries, winners[i].Entry)
	}

	announcement, err := d.allocator.announcer.AnnounceWinners(ctx, community.GuildID, req.ChannelID, event, entries)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot announce winners of event %s: %v", event.ID, err)
		common.PromCounters[common.AnnouncementFailureTotal].WithLabelValues().Inc()
		return nil, errorx.New(errorx.ExternalDependency, "Failed to announce winners to Discord")
	}

	announced := len(entries)
	if announced > client.MaxAnnouncedWinners {
		announced = client.MaxAnnouncedWinners
	}

	err = recordAudit(ctx, d.auditLogRepo, community.ID, entity.AuditWinnersAnnounced, entity.Map{
		"eventId":   event.ID,
		"channelId": req.ChannelID,
		"messageId": announcement.MessageID,
		"count":     len(entries),
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot create audit log: %v", err)
	}

	return &model.AnnounceWinnersResponse{
		MessageID: announcement.MessageID,
		URL:       announcement.URL,
		Announced: announced,
	}, nil
}

// winnersWithEntries returns the winners of the event with their entries,
// the latest winner first.
func (d *winnerDomain) winnersWithEntries(ctx context.Context, eventID string) ([]entity.Winner, error) {
	winners, err := d.winnerRepo.GetByEventID(ctx, eventID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
		return nil, errorx.Unknown
	}

	entryIDs := make([]string, 0, len(winners))
	for _, w := range winners {
		entryIDs = append(entryIDs, w.EntryID)
	}

	entries, err := d.entryRepo.GetByIDs(ctx, eventID, entryIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries of winners: %v", err)
		return nil, errorx.Unknown
	}

	entryByID := make(map[string]entity.Entry, len(entries))
	for _, e := range entries {
		entryByID[e.ID] = e
	}

	for i := range winners {
		winners[i].Entry = entryByID[winners[i].EntryID]
	}

	return winners, nil
}

func (d *winnerDomain) pickedEntryIDs(ctx context.Context, eventID string) ([]string, error) {
	picked, err := d.allocator.pickedEntryIDs(ctx, eventID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get existing winners: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]string, 0, len(picked))
	for id := range picked {
		result = append(result, id)
	}

	return result, nil
}

// allocationError converts the failure of a concurrent allocation to the
// error the caller would have got with a fresh view of the event.
func (d *winnerDomain) allocationError(ctx context.Context, event *entity.Event, requested int, err error) error {
	switch {
	case errors.Is(err, errNotEnoughSpots):
		fresh, getErr := d.eventRepo.GetByID(ctx, event.ID)
		if getErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot get event: %v", getErr)
			return errorx.Unknown
		}

		return selection.TooManyWinners(requested, selection.SlotsOf(fresh, fresh.WinnerCount))

	case errors.Is(err, errAlreadyWinner):
		return errorx.New(errorx.AlreadyExists, "Some entries were selected as winners concurrently, please retry")
	}

	xcontext.Logger(ctx).Errorf("Cannot create winners: %v", err)
	return errorx.Unknown
}
