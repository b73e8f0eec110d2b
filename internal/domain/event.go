package domain

import (
	"context"
	"errors"
	"time"

	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/enum"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventDomain interface {
	CreateEvent(context.Context, *model.CreateEventRequest) (*model.CreateEventResponse, error)
	GetEvent(context.Context, *model.GetEventRequest) (*model.GetEventResponse, error)
	CloseEvent(context.Context, *model.CloseEventRequest) (*model.CloseEventResponse, error)
	SetAutoDraw(context.Context, *model.SetAutoDrawRequest) (*model.SetAutoDrawResponse, error)
}

type eventDomain struct {
	eventRepo       repository.EventRepository
	requirementRepo repository.RequirementRepository
	communityRepo   repository.CommunityRepository
	auditLogRepo    repository.AuditLogRepository
	discordProvider eligibility.DiscordFactsProvider
}

func NewEventDomain(
	eventRepo repository.EventRepository,
	requirementRepo repository.RequirementRepository,
	communityRepo repository.CommunityRepository,
	auditLogRepo repository.AuditLogRepository,
	discordProvider eligibility.DiscordFactsProvider,
) *eventDomain {
	return &eventDomain{
		eventRepo:       eventRepo,
		requirementRepo: requirementRepo,
		communityRepo:   communityRepo,
		auditLogRepo:    auditLogRepo,
		discordProvider: discordProvider,
	}
}

func (d *eventDomain) CreateEvent(
	ctx context.Context, req *model.CreateEventRequest,
) (*model.CreateEventResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	eventType, err := enum.ToEnum[entity.EventType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid event type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid event type %s", req.Type)
	}

	selectionMode, err := enum.ToEnum[entity.SelectionMode](req.SelectionMode)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid selection mode: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid selection mode %s", req.SelectionMode)
	}

	if req.MaxWinners < 1 {
		return nil, errorx.New(errorx.BadRequest, "Max winners must be at least 1")
	}

	if req.ReservedSpots < 0 || req.ReservedSpots > req.MaxWinners {
		return nil, errorx.New(errorx.BadRequest,
			"Reserved spots must be between 0 and max winners (%d)", req.MaxWinners)
	}

	if req.EndAt.IsZero() {
		return nil, errorx.New(errorx.BadRequest, "End time is required")
	}

	if req.AutoDraw && selectionMode != entity.SelectionModeRandom {
		return nil, errorx.New(errorx.BadRequest, "Only RANDOM events can be drawn automatically")
	}

	status := entity.EventStatusActive
	if req.Draft {
		status = entity.EventStatusDraft
	} else if !req.EndAt.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "End time must be in the future")
	}

	community, err := d.communityRepo.GetByID(ctx, req.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	event := &entity.Event{
		Base:          entity.Base{ID: uuid.NewString()},
		CommunityID:   community.ID,
		Title:         req.Title,
		Type:          eventType,
		Status:        status,
		SelectionMode: selectionMode,
		MaxWinners:    req.MaxWinners,
		ReservedSpots: req.ReservedSpots,
		AutoDraw:      req.AutoDraw,
		EndAt:         req.EndAt,
	}

	requirements := []*entity.Requirement{}
	modelRequirements := []model.Requirement{}
	roleIDs := []string{}
	for i, r := range req.Requirements {
		requirementType, err := enum.ToEnum[entity.RequirementType](r.Type)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid requirement type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid type of requirement %d", i+1)
		}

		cfg, err := eligibility.DecodeConfig(requirementType, r.Config)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid requirement config: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid config of requirement %d: %v", i+1, err)
		}

		if roleCfg, ok := cfg.(eligibility.DiscordRoleConfig); ok {
			roleIDs = append(roleIDs, roleCfg.RoleIDs...)
		}

		requirement := &entity.Requirement{
			Base:    entity.Base{ID: uuid.NewString()},
			EventID: event.ID,
			Type:    requirementType,
			Config:  eligibility.EncodeConfig(cfg),
		}

		requirements = append(requirements, requirement)
		modelRequirements = append(modelRequirements, convertRequirement(requirement, cfg.Statement()))
	}

	if err := d.checkGuildRoles(ctx, community, roleIDs); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.eventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create event: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.requirementRepo.Create(ctx, requirements...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create requirements: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateEventResponse{Event: convertEvent(event, modelRequirements)}, nil
}

func (d *eventDomain) GetEvent(
	ctx context.Context, req *model.GetEventRequest,
) (*model.GetEventResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	requirements, err := d.requirementRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get requirements: %v", err)
		return nil, errorx.Unknown
	}

	modelRequirements := []model.Requirement{}
	for i := range requirements {
		statement := ""
		if cfg, err := eligibility.DecodeConfig(requirements[i].Type, requirements[i].Config); err == nil {
			statement = cfg.Statement()
		}

		modelRequirements = append(modelRequirements, convertRequirement(&requirements[i], statement))
	}

	return &model.GetEventResponse{Event: convertEvent(event, modelRequirements)}, nil
}

func (d *eventDomain) CloseEvent(
	ctx context.Context, req *model.CloseEventRequest,
) (*model.CloseEventResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.Status == entity.EventStatusClosed {
		return &model.CloseEventResponse{}, nil
	}

	if err := d.eventRepo.UpdateStatus(ctx, event.ID, entity.EventStatusClosed); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot close event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CloseEventResponse{}, nil
}

// SetAutoDraw turns the automatic draw of a RANDOM event on or off. The draw
// runs once the event ends.
func (d *eventDomain) SetAutoDraw(
	ctx context.Context, req *model.SetAutoDrawRequest,
) (*model.SetAutoDrawResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.SelectionMode == entity.SelectionModeFCFS {
		return nil, errorx.New(errorx.InvalidSelectionMode,
			"FCFS events automatically assign winners; manual scheduling not needed")
	}

	if event.SelectionMode != entity.SelectionModeRandom {
		return nil, errorx.New(errorx.InvalidSelectionMode, "Only RANDOM events can be drawn automatically")
	}

	if event.Status == entity.EventStatusClosed {
		return nil, errorx.New(errorx.EventInactive, "Event is already closed")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.eventRepo.UpdateAutoDraw(ctx, event.ID, req.Enabled); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update auto draw: %v", err)
		return nil, errorx.Unknown
	}

	scheduledAt := event.EndAt.Format(defaultTimeLayout)
	err = recordAudit(ctx, d.auditLogRepo, event.CommunityID, entity.AuditAutoDrawScheduled, entity.Map{
		"eventId":     event.ID,
		"enabled":     req.Enabled,
		"scheduledAt": scheduledAt,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create audit log: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SetAutoDrawResponse{
		EventID:     event.ID,
		AutoDraw:    req.Enabled,
		ScheduledAt: scheduledAt,
	}, nil
}

// checkGuildRoles rejects role ids which don't exist in the guild of the
// community. Nothing is checked if the roles cannot be listed with the
// configured credentials.
func (d *eventDomain) checkGuildRoles(ctx context.Context, community *entity.Community, roleIDs []string) error {
	if d.discordProvider == nil || community.GuildID == "" || len(roleIDs) == 0 {
		return nil
	}

	roles, err := d.discordProvider.GetGuildRoles(ctx, community.GuildID)
	if err != nil {
		if errors.Is(err, eligibility.ErrCredentialUnavailable) {
			xcontext.Logger(ctx).Warnf("Skip checking roles of guild %s: %v", community.GuildID, err)
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get roles of guild %s: %v", community.GuildID, err)
		return errorx.New(errorx.ExternalDependency, "Cannot get roles of the Discord guild")
	}

	known := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		known[r.ID] = struct{}{}
	}

	for _, id := range roleIDs {
		if _, ok := known[id]; !ok {
			return errorx.New(errorx.BadRequest, "Role %s is not found in the Discord guild", id)
		}
	}

	return nil
}

func getEvent(ctx context.Context, eventRepo repository.EventRepository, eventID string) (*entity.Event, error) {
	if eventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty event id")
	}

	event, err := eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	return event, nil
}
