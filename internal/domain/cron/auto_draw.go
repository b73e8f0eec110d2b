package cron

import (
	"context"
	"time"

	"github.com/droplabz/backend/internal/domain"
	"github.com/droplabz/backend/internal/domain/selection"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
)

// AutoDrawCronJob draws the winners of RANDOM events with auto draw enabled
// once they end, then closes them. An event whose draw fails for any other
// reason than an empty pool stays ACTIVE and is retried on the next run.
type AutoDrawCronJob struct {
	eventRepo    repository.EventRepository
	auditLogRepo repository.AuditLogRepository
	winnerDomain domain.WinnerDomain
	interval     time.Duration
}

func NewAutoDrawCronJob(
	eventRepo repository.EventRepository,
	auditLogRepo repository.AuditLogRepository,
	winnerDomain domain.WinnerDomain,
	interval time.Duration,
) *AutoDrawCronJob {
	return &AutoDrawCronJob{
		eventRepo:    eventRepo,
		auditLogRepo: auditLogRepo,
		winnerDomain: winnerDomain,
		interval:     interval,
	}
}

func (job *AutoDrawCronJob) Do(ctx context.Context) {
	events, err := job.eventRepo.GetEndedAutoDrawEvents(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended auto draw events: %v", err)
		return
	}

	for i := range events {
		event := &events[i]

		resp, err := job.winnerDomain.Draw(ctx, event, selection.Options{}, entity.PickedBySystemAutoDraw)
		switch {
		case err == nil:
			xcontext.Logger(ctx).Infof("Drew %d winners of event %s", resp.Count, event.ID)
			job.audit(ctx, event, resp)

		case errorx.Is(err, errorx.NoSpotsAvailable), errorx.Is(err, errorx.NoEligibleEntries):
			xcontext.Logger(ctx).Infof("Nothing to draw for event %s: %v", event.ID, err)

		default:
			xcontext.Logger(ctx).Errorf("Cannot draw winners of event %s, retry later: %v", event.ID, err)
			continue
		}

		if err := job.eventRepo.UpdateStatus(ctx, event.ID, entity.EventStatusClosed); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot close event %s: %v", event.ID, err)
		}
	}
}

func (job *AutoDrawCronJob) audit(ctx context.Context, event *entity.Event, resp *model.DrawWinnersResponse) {
	err := job.auditLogRepo.Create(ctx, &entity.AuditLog{
		Base:        entity.Base{ID: uuid.NewString()},
		CommunityID: event.CommunityID,
		ActorID:     entity.PickedBySystemAutoDraw,
		Action:      entity.AuditAutoDrawCompleted,
		Meta: entity.Map{
			"eventId":       event.ID,
			"count":         resp.Count,
			"totalEligible": resp.TotalEligible,
		},
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot create audit log of auto draw: %v", err)
	}
}

func (job *AutoDrawCronJob) RunNow() bool {
	return true
}

func (job *AutoDrawCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
