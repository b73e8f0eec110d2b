package domain

import (
	"context"
	"errors"
	"time"

	"github.com/droplabz/backend/internal/client"
	"github.com/droplabz/backend/internal/common"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/pubsub"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errNotEnoughSpots = errors.New("not enough winner spots")
	errAlreadyWinner  = errors.New("entry is already a winner")
)

// WinnerNotifier holds the sinks informed about new winners. Both are
// optional.
type WinnerNotifier struct {
	Announcer client.Announcer
	Publisher pubsub.Publisher
}

// winnerAllocator is the only writer of winners. It keeps the winner counter
// of the event and the winner rows in the same transaction.
type winnerAllocator struct {
	eventRepo     repository.EventRepository
	winnerRepo    repository.WinnerRepository
	communityRepo repository.CommunityRepository
	announcer     client.Announcer
	publisher     pubsub.Publisher
}

func newWinnerAllocator(
	eventRepo repository.EventRepository,
	winnerRepo repository.WinnerRepository,
	communityRepo repository.CommunityRepository,
	announcer client.Announcer,
	publisher pubsub.Publisher,
) *winnerAllocator {
	return &winnerAllocator{
		eventRepo:     eventRepo,
		winnerRepo:    winnerRepo,
		communityRepo: communityRepo,
		announcer:     announcer,
		publisher:     publisher,
	}
}

// Create reserves one spot per entry and creates their winners atomically. It
// returns errNotEnoughSpots if the event cannot hold all of them and
// errAlreadyWinner if one of the entries was picked concurrently.
func (a *winnerAllocator) Create(
	ctx context.Context, event *entity.Event, entries []entity.Entry, pickedBy string,
) ([]entity.Winner, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	now := time.Now()
	winners := make([]*entity.Winner, 0, len(entries))
	for _, e := range entries {
		winners = append(winners, &entity.Winner{
			Base:     entity.Base{ID: uuid.NewString()},
			EventID:  event.ID,
			EntryID:  e.ID,
			PickedBy: pickedBy,
			PickedAt: now,
		})
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := a.eventRepo.ReserveSpots(txCtx, event.ID, len(entries)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotEnoughSpots
		}

		return nil, err
	}

	if err := a.winnerRepo.Create(txCtx, winners...); err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)

		picked, getErr := a.pickedEntryIDs(ctx, event.ID)
		if getErr != nil {
			return nil, err
		}

		for _, e := range entries {
			if _, ok := picked[e.ID]; ok {
				return nil, errAlreadyWinner
			}
		}

		return nil, err
	}

	xcontext.WithCommitDBTransaction(txCtx)

	result := make([]entity.Winner, 0, len(winners))
	for i, w := range winners {
		w.Entry = entries[i]
		result = append(result, *w)
	}

	common.PromCounters[common.WinnerCreatedTotal].
		WithLabelValues(string(event.SelectionMode)).Add(float64(len(result)))

	return result, nil
}

// AssignFCFS creates the winner of an entry of a FCFS event if there is still
// a free spot. It returns nil without error when the event is full or the
// entry was already assigned.
func (a *winnerAllocator) AssignFCFS(
	ctx context.Context, event *entity.Event, entry entity.Entry,
) (*entity.Winner, error) {
	winners, err := a.Create(ctx, event, []entity.Entry{entry}, entity.PickedBySystemFCFS)
	if err != nil {
		if errors.Is(err, errNotEnoughSpots) || errors.Is(err, errAlreadyWinner) {
			return nil, nil
		}

		return nil, err
	}

	a.Notify(ctx, event, winners, false)
	return &winners[0], nil
}

// Notify publishes the created winners and, if announce is set, posts them to
// the winner channel of the community. Failures are only logged.
func (a *winnerAllocator) Notify(ctx context.Context, event *entity.Event, winners []entity.Winner, announce bool) {
	if len(winners) == 0 {
		return
	}

	entries := make([]entity.Entry, 0, len(winners))
	for _, w := range winners {
		entries = append(entries, w.Entry)
	}

	a.publish(ctx, event, winners)
	if announce {
		a.announce(ctx, event, entries)
	}
}

func (a *winnerAllocator) publish(ctx context.Context, event *entity.Event, winners []entity.Winner) {
	if a.publisher == nil {
		return
	}

	msg := model.WinnersCreated{
		EventID:       event.ID,
		SelectionMode: string(event.SelectionMode),
		PickedBy:      winners[0].PickedBy,
	}
	for _, w := range winners {
		msg.EntryIDs = append(msg.EntryIDs, w.EntryID)
		msg.Wallets = append(msg.Wallets, w.Entry.WalletAddress)
	}

	pack, err := pubsub.NewJSONPack(event.ID, msg)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pack winners created message: %v", err)
		return
	}

	if err := a.publisher.Publish(ctx, model.WinnersCreatedTopic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish winners of event %s: %v", event.ID, err)
	}
}

func (a *winnerAllocator) announce(ctx context.Context, event *entity.Event, entries []entity.Entry) {
	if a.announcer == nil {
		return
	}

	community, err := a.communityRepo.GetByID(ctx, event.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get community to announce winners: %v", err)
		return
	}

	if !community.AutoAnnounceWinners || community.GuildID == "" || community.WinnerChannelID == "" {
		return
	}

	announcement, err := a.announcer.AnnounceWinners(ctx, community.GuildID, community.WinnerChannelID, event, entries)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot announce winners of event %s: %v", event.ID, err)
		common.PromCounters[common.AnnouncementFailureTotal].WithLabelValues().Inc()
		return
	}

	xcontext.Logger(ctx).Infof("Announced %d winners of event %s at %s", len(entries), event.ID, announcement.URL)
}

func (a *winnerAllocator) pickedEntryIDs(ctx context.Context, eventID string) (map[string]struct{}, error) {
	winners, err := a.winnerRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	picked := make(map[string]struct{}, len(winners))
	for _, w := range winners {
		picked[w.EntryID] = struct{}{}
	}

	return picked, nil
}
