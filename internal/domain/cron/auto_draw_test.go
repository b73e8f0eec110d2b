package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droplabz/backend/internal/domain"
	"github.com/droplabz/backend/internal/domain/selection"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestAutoDrawCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()

	eventRepo := repository.NewEventRepository()
	entryRepo := repository.NewEntryRepository()
	winnerRepo := repository.NewWinnerRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	winnerDomain := domain.NewWinnerDomain(
		eventRepo, entryRepo, winnerRepo, repository.NewCommunityRepository(nil), auditLogRepo,
		domain.WinnerNotifier{})

	ended := testutil.SampleEvent(ctx, entity.Event{
		AutoDraw:   true,
		MaxWinners: 2,
		EndAt:      time.Now().Add(-time.Minute),
	})
	for i := 0; i < 3; i++ {
		testutil.SampleEntry(ctx, entity.Entry{EventID: ended.ID})
	}

	empty := testutil.SampleEvent(ctx, entity.Event{AutoDraw: true, EndAt: time.Now().Add(-time.Minute)})
	running := testutil.SampleEvent(ctx, entity.Event{AutoDraw: true})
	testutil.SampleEntry(ctx, entity.Entry{EventID: running.ID})
	manual := testutil.SampleEvent(ctx, entity.Event{EndAt: time.Now().Add(-time.Minute)})
	testutil.SampleEntry(ctx, entity.Entry{EventID: manual.ID})

	job := NewAutoDrawCronJob(eventRepo, auditLogRepo, winnerDomain, time.Minute)
	job.Do(ctx)

	winners, err := winnerRepo.GetByEventID(ctx, ended.ID)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	for _, w := range winners {
		require.Equal(t, entity.PickedBySystemAutoDraw, w.PickedBy)
	}

	for _, tc := range []struct {
		eventID string
		status  entity.EventStatus
	}{
		{ended.ID, entity.EventStatusClosed},
		{empty.ID, entity.EventStatusClosed},
		{running.ID, entity.EventStatusActive},
		{manual.ID, entity.EventStatusActive},
	} {
		event, err := eventRepo.GetByID(ctx, tc.eventID)
		require.NoError(t, err)
		require.Equal(t, tc.status, event.Status)
	}

	logs, err := auditLogRepo.GetByCommunityID(ctx, ended.CommunityID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, entity.AuditAutoDrawCompleted, logs[0].Action)
	require.Equal(t, entity.PickedBySystemAutoDraw, logs[0].ActorID)
	require.Equal(t, float64(2), logs[0].Meta["count"])

	// Closed events are not drawn again.
	job.Do(ctx)
	count, err := winnerRepo.Count(ctx, ended.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = winnerRepo.Count(ctx, manual.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

type failingWinnerDomain struct {
	domain.WinnerDomain
	calls int
}

func (d *failingWinnerDomain) Draw(
	ctx context.Context, event *entity.Event, opts selection.Options, pickedBy string,
) (*model.DrawWinnersResponse, error) {
	d.calls++
	return nil, errors.New("database is locked")
}

func TestAutoDrawCronJob_Do_DrawFailed(t *testing.T) {
	ctx := testutil.MockContext()

	eventRepo := repository.NewEventRepository()
	ended := testutil.SampleEvent(ctx, entity.Event{
		AutoDraw:   true,
		MaxWinners: 2,
		EndAt:      time.Now().Add(-time.Minute),
	})
	testutil.SampleEntry(ctx, entity.Entry{EventID: ended.ID})

	auditLogRepo := repository.NewAuditLogRepository()
	winnerDomain := &failingWinnerDomain{}
	job := NewAutoDrawCronJob(eventRepo, auditLogRepo, winnerDomain, time.Minute)
	job.Do(ctx)

	event, err := eventRepo.GetByID(ctx, ended.ID)
	require.NoError(t, err)
	require.Equal(t, entity.EventStatusActive, event.Status)

	logs, err := auditLogRepo.GetByCommunityID(ctx, ended.CommunityID, 0)
	require.NoError(t, err)
	require.Empty(t, logs)

	// The event is picked up again on the next run.
	job.Do(ctx)
	require.Equal(t, 2, winnerDomain.calls)
}
