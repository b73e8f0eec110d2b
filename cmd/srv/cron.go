package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/droplabz/backend/internal/domain/cron"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadEndpoint()
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(
		cron.NewAutoDrawCronJob(
			s.eventRepo, s.auditLogRepo, s.winnerDomain, xcontext.Configs(s.ctx).Cron.AutoDrawInterval),
	)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
