package main

import (
	"fmt"
	"net/http"

	"github.com/droplabz/backend/internal/middleware"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/pkg/authenticator"
	"github.com/droplabz/backend/pkg/prometheus"
	"github.com/droplabz/backend/pkg/ratelimit"
	"github.com/droplabz/backend/pkg/router"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
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

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.loadRouter().Handler(cfg.ApiServer),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port: %s", cfg.ApiServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) newRateLimiter() *ratelimit.Limiter {
	cfg := xcontext.Configs(s.ctx).RateLimit

	var store ratelimit.Store
	if s.redisClient != nil {
		store = ratelimit.NewRedisStore(s.redisClient)
	} else {
		store = ratelimit.NewMemoryStore()
	}

	return ratelimit.NewLimiter(store, cfg.MaxAttempts, cfg.Window)
}

func (s *srv) loadRouter() *router.Router {
	cfg := xcontext.Configs(s.ctx)

	defaultRouter := router.New(s.ctx)
	defaultRouter.AddCloser(middleware.Logger())
	defaultRouter.AddCloser(middleware.Prometheus())
	defaultRouter.Before(middleware.NewAuthVerifier(
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken)))

	defaultRouter.Handle(http.MethodGet, "/metrics", prometheus.NewHandler())

	// Entry submission is rate limited per client ip.
	entryRouter := defaultRouter.Branch()
	entryRouter.Before(middleware.RateLimit(s.newRateLimiter(), cfg.RateLimit.TrustedProxies))
	{
		router.POST(entryRouter, "/createEntry", s.entryDomain.CreateEntry)
	}

	// Public API.
	router.GET(defaultRouter, "/getEntries", s.entryDomain.GetEntries)
	router.GET(defaultRouter, "/getCommunity", s.communityDomain.GetCommunity)
	router.GET(defaultRouter, "/getEvent", s.eventDomain.GetEvent)
	router.GET(defaultRouter, "/getWinners", s.winnerDomain.GetWinners)

	// These following APIs need an access token.
	adminRouter := defaultRouter.Branch()
	adminRouter.Before(middleware.Authenticate)
	{
		// Community API
		router.POST(adminRouter, "/createCommunity", s.communityDomain.CreateCommunity)
		router.POST(adminRouter, "/updateCommunityDiscord", s.communityDomain.UpdateCommunityDiscord)
		router.GET(adminRouter, "/getGuildRoles", s.communityDomain.GetGuildRoles)
		router.GET(adminRouter, "/getAuditLogs", s.communityDomain.GetAuditLogs)

		// Event API
		router.POST(adminRouter, "/createEvent", s.eventDomain.CreateEvent)
		router.POST(adminRouter, "/closeEvent", s.eventDomain.CloseEvent)
		router.POST(adminRouter, "/setAutoDraw", s.eventDomain.SetAutoDraw)

		// Entry API
		router.POST(adminRouter, "/verifyEntry", s.entryDomain.VerifyEntry)
		router.POST(adminRouter, "/markIneligible", s.entryDomain.MarkIneligible)
		router.POST(adminRouter, "/setEligibility", s.entryDomain.SetEligibility)
		router.GET(adminRouter, "/getDuplicates", s.entryDomain.GetDuplicates)

		// Winner API
		router.POST(adminRouter, "/drawWinners", s.winnerDomain.DrawWinners)
		router.POST(adminRouter, "/pickWinners", s.winnerDomain.PickWinners)
		router.POST(adminRouter, "/announceWinners", s.winnerDomain.AnnounceWinners)
	}

	return defaultRouter
}
