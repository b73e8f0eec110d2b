package main

import (
	"context"
	"net/http"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/internal/client"
	"github.com/droplabz/backend/internal/domain"
	"github.com/droplabz/backend/internal/domain/duplicate"
	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/kafka"
	"github.com/droplabz/backend/pkg/logger"
	"github.com/droplabz/backend/pkg/pubsub"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/droplabz/backend/pkg/xredis"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher

	discordEndpoint discord.IEndpoint

	communityRepo   repository.CommunityRepository
	eventRepo       repository.EventRepository
	requirementRepo repository.RequirementRepository
	entryRepo       repository.EntryRepository
	winnerRepo      repository.WinnerRepository
	oauth2Repo      repository.OAuth2Repository
	auditLogRepo    repository.AuditLogRepository

	communityDomain domain.CommunityDomain
	eventDomain     domain.EventDomain
	entryDomain     domain.EntryDomain
	winnerDomain    domain.WinnerDomain
}

func (s *srv) before(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: cfg.Verification.FetchTimeout})
	return nil
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRedisClient() error {
	if !xcontext.Configs(s.ctx).Redis.Enable {
		xcontext.Logger(s.ctx).Warnf("Redis is disabled, caches and rate limits are kept in memory")
		return nil
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		return err
	}

	s.redisClient = redisClient
	return nil
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		xcontext.Logger(s.ctx).Warnf("Kafka is disabled, winners are not published")
		return nil
	}

	publisher, err := kafka.NewPublisher("droplabz-api", []string{cfg.Addr})
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadEndpoint() {
	cfg := xcontext.Configs(s.ctx)
	s.discordEndpoint = discord.New(cfg.Discord, cfg.Verification.MaxRetries)
}

func (s *srv) loadRepos() {
	s.communityRepo = repository.NewCommunityRepository(s.redisClient)
	s.eventRepo = repository.NewEventRepository()
	s.requirementRepo = repository.NewRequirementRepository()
	s.entryRepo = repository.NewEntryRepository()
	s.winnerRepo = repository.NewWinnerRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.auditLogRepo = repository.NewAuditLogRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	notifier := domain.WinnerNotifier{
		Announcer: client.NewDiscordAnnouncer(s.discordEndpoint),
		Publisher: s.publisher,
	}

	discordFacts := client.NewDiscordFactsCaller(s.discordEndpoint, s.oauth2Repo)
	verifier := eligibility.NewVerifier(
		s.entryRepo,
		discordFacts,
		client.NewSolanaFactsCaller(rpc.New(cfg.Solana.RPCEndpoint)),
	)

	s.communityDomain = domain.NewCommunityDomain(s.communityRepo, s.auditLogRepo, discordFacts)
	s.eventDomain = domain.NewEventDomain(
		s.eventRepo, s.requirementRepo, s.communityRepo, s.auditLogRepo, discordFacts)
	s.entryDomain = domain.NewEntryDomain(
		s.entryRepo,
		s.eventRepo,
		s.requirementRepo,
		s.communityRepo,
		s.winnerRepo,
		s.auditLogRepo,
		verifier,
		duplicate.NewDetector(s.entryRepo),
		notifier,
	)
	s.winnerDomain = domain.NewWinnerDomain(
		s.eventRepo, s.entryRepo, s.winnerRepo, s.communityRepo, s.auditLogRepo, notifier)
}
