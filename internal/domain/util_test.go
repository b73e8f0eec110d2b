package domain

import (
	"context"
	"sync"

	"github.com/droplabz/backend/internal/client"
	"github.com/droplabz/backend/internal/domain/duplicate"
	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/pubsub"
)

type recordedPublish struct {
	topic string
	pack  *pubsub.Pack
}

type testDomains struct {
	entryRepo    repository.EntryRepository
	eventRepo    repository.EventRepository
	winnerRepo   repository.WinnerRepository
	auditLogRepo repository.AuditLogRepository

	eventDomain  *eventDomain
	entryDomain  *entryDomain
	winnerDomain *winnerDomain

	mutex     sync.Mutex
	published   []recordedPublish
	announced   [][]entity.Entry
	announcedTo []string
}

func newTestDomains(
	discordProvider eligibility.DiscordFactsProvider,
	solanaProvider eligibility.SolanaFactsProvider,
	announceErr error,
) *testDomains {
	d := &testDomains{
		entryRepo:    repository.NewEntryRepository(),
		eventRepo:    repository.NewEventRepository(),
		winnerRepo:   repository.NewWinnerRepository(),
		auditLogRepo: repository.NewAuditLogRepository(),
	}

	communityRepo := repository.NewCommunityRepository(nil)
	requirementRepo := repository.NewRequirementRepository()

	notifier := WinnerNotifier{
		Announcer: &client.MockAnnouncer{
			AnnounceWinnersFunc: func(
				ctx context.Context, guildID, channelID string, event *entity.Event, entries []entity.Entry,
			) (client.Announcement, error) {
				d.mutex.Lock()
				defer d.mutex.Unlock()
				d.announced = append(d.announced, entries)
				d.announcedTo = append(d.announcedTo, channelID)
				if announceErr != nil {
					return client.Announcement{}, announceErr
				}

				return client.Announcement{MessageID: "message-1", URL: "https://discord.com/channels/" +
					guildID + "/" + channelID + "/message-1"}, nil
			},
		},
		Publisher: &pubsub.MockPublisher{
			PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
				d.mutex.Lock()
				defer d.mutex.Unlock()
				d.published = append(d.published, recordedPublish{topic: topic, pack: pack})
				return nil
			},
		},
	}

	d.eventDomain = NewEventDomain(d.eventRepo, requirementRepo, communityRepo, d.auditLogRepo, discordProvider)
	d.entryDomain = NewEntryDomain(
		d.entryRepo,
		d.eventRepo,
		requirementRepo,
		communityRepo,
		d.winnerRepo,
		d.auditLogRepo,
		eligibility.NewVerifier(d.entryRepo, discordProvider, solanaProvider),
		duplicate.NewDetector(d.entryRepo),
		notifier,
	)
	d.winnerDomain = NewWinnerDomain(d.eventRepo, d.entryRepo, d.winnerRepo, communityRepo, d.auditLogRepo, notifier)

	return d
}

func (d *testDomains) publishedCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.published)
}

func (d *testDomains) announcedCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.announced)
}

func (d *testDomains) auditLogs(ctx context.Context, communityID string) []entity.AuditLog {
	logs, err := d.auditLogRepo.GetByCommunityID(ctx, communityID, 0)
	if err != nil {
		panic(err)
	}

	return logs
}

var repositoryFilterAll = repository.GetEntriesFilter{}
