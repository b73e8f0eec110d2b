package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/droplabz/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runNow bool
	count  int32
}

func (job *countingJob) Do(context.Context) {
	atomic.AddInt32(&job.count, 1)
}

func (job *countingJob) RunNow() bool {
	return job.runNow
}

func (job *countingJob) Next() time.Time {
	return time.Now().Add(10 * time.Millisecond)
}

func TestCronJobManager(t *testing.T) {
	ctx := testutil.MockContext()

	immediate := &countingJob{runNow: true}
	delayed := &countingJob{}

	manager := NewCronJobManager()
	manager.Register(immediate, delayed)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&immediate.count) >= 3 && atomic.LoadInt32(&delayed.count) >= 2
	}, time.Second, 5*time.Millisecond)

	manager.Cancel(ctx)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager is not stopped")
	}

	// Cancel twice is a no-op.
	manager.Cancel(ctx)
}
