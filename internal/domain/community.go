package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"unicode"

	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/api/discord"
	"github.com/droplabz/backend/pkg/crypto"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var communityHandleRegex = regexp.MustCompile("^[a-z0-9_]*$")

const maxAuditLogLimit = 100

type CommunityDomain interface {
	CreateCommunity(context.Context, *model.CreateCommunityRequest) (*model.CreateCommunityResponse, error)
	GetCommunity(context.Context, *model.GetCommunityRequest) (*model.GetCommunityResponse, error)
	UpdateCommunityDiscord(context.Context, *model.UpdateCommunityDiscordRequest) (*model.UpdateCommunityDiscordResponse, error)
	GetGuildRoles(context.Context, *model.GetGuildRolesRequest) (*model.GetGuildRolesResponse, error)
	GetAuditLogs(context.Context, *model.GetAuditLogsRequest) (*model.GetAuditLogsResponse, error)
}

type communityDomain struct {
	communityRepo   repository.CommunityRepository
	auditLogRepo    repository.AuditLogRepository
	discordProvider eligibility.DiscordFactsProvider
}

func NewCommunityDomain(
	communityRepo repository.CommunityRepository,
	auditLogRepo repository.AuditLogRepository,
	discordProvider eligibility.DiscordFactsProvider,
) *communityDomain {
	return &communityDomain{
		communityRepo:   communityRepo,
		auditLogRepo:    auditLogRepo,
		discordProvider: discordProvider,
	}
}

func (d *communityDomain) CreateCommunity(
	ctx context.Context, req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	if len(req.DisplayName) < 4 {
		return nil, errorx.New(errorx.BadRequest, "Display name too short (at least 4 characters)")
	}

	if err := checkDiscordIDs(req.GuildID, req.WinnerChannelID, req.AutoAnnounceWinners); err != nil {
		return nil, err
	}

	if req.Handle != "" {
		if err := checkCommunityHandle(req.Handle); err != nil {
			return nil, err
		}

		_, err := d.communityRepo.GetByHandle(ctx, req.Handle)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get community by handle: %v", err)
				return nil, errorx.Unknown
			}

			return nil, errorx.New(errorx.AlreadyExists, "Duplicated handle")
		}
	} else {
		handle, err := d.generateHandle(ctx, req.DisplayName)
		if err != nil {
			return nil, err
		}

		req.Handle = handle
	}

	community := &entity.Community{
		Base:                entity.Base{ID: uuid.NewString()},
		Handle:              req.Handle,
		DisplayName:         req.DisplayName,
		CreatedBy:           xcontext.RequestUserID(ctx),
		GuildID:             req.GuildID,
		WinnerChannelID:     req.WinnerChannelID,
		AutoAnnounceWinners: req.AutoAnnounceWinners,
	}

	if err := d.communityRepo.Create(ctx, community); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create community: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommunityResponse{Community: convertCommunity(community)}, nil
}

func (d *communityDomain) GetCommunity(
	ctx context.Context, req *model.GetCommunityRequest,
) (*model.GetCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	return &model.GetCommunityResponse{Community: convertCommunity(community)}, nil
}

// GetGuildRoles lists the roles of the linked guild, highest first, for the
// role requirements of new events.
func (d *communityDomain) GetGuildRoles(
	ctx context.Context, req *model.GetGuildRolesRequest,
) (*model.GetGuildRolesResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	if community.GuildID == "" {
		return nil, errorx.New(errorx.BadRequest, "Discord guild not linked to community")
	}

	if d.discordProvider == nil {
		return nil, errorx.New(errorx.Unavailable, "Discord is not available")
	}

	roles, err := d.discordProvider.GetGuildRoles(ctx, community.GuildID)
	if err != nil {
		if errors.Is(err, eligibility.ErrCredentialUnavailable) {
			return nil, errorx.New(errorx.Unavailable, "Discord bot is not configured")
		}

		xcontext.Logger(ctx).Errorf("Cannot get roles of guild %s: %v", community.GuildID, err)
		return nil, errorx.New(errorx.ExternalDependency, "Cannot get roles of the Discord guild")
	}

	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })

	result := make([]model.GuildRole, 0, len(roles))
	for _, r := range roles {
		result = append(result, model.GuildRole{ID: r.ID, Name: r.Name, Position: r.Position})
	}

	return &model.GetGuildRolesResponse{Roles: result}, nil
}

func (d *communityDomain) GetAuditLogs(
	ctx context.Context, req *model.GetAuditLogsRequest,
) (*model.GetAuditLogsResponse, error) {
	if req.Limit < 0 || req.Limit > maxAuditLogLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 0 and %d", maxAuditLogLimit)
	}

	if req.Limit == 0 {
		req.Limit = maxAuditLogLimit
	}

	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	logs, err := d.auditLogRepo.GetByCommunityID(ctx, community.ID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get audit logs: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.AuditLog, 0, len(logs))
	for i := range logs {
		result = append(result, convertAuditLog(&logs[i]))
	}

	return &model.GetAuditLogsResponse{AuditLogs: result}, nil
}

func (d *communityDomain) getCommunity(ctx context.Context, communityID string) (*entity.Community, error) {
	if communityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty community id")
	}

	community, err := d.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	return community, nil
}

func (d *communityDomain) UpdateCommunityDiscord(
	ctx context.Context, req *model.UpdateCommunityDiscordRequest,
) (*model.UpdateCommunityDiscordResponse, error) {
	if err := checkDiscordIDs(req.GuildID, req.WinnerChannelID, req.AutoAnnounceWinners); err != nil {
		return nil, err
	}

	err := d.communityRepo.UpdateDiscord(ctx, req.CommunityID, repository.UpdateCommunityDiscordData{
		GuildID:             req.GuildID,
		WinnerChannelID:     req.WinnerChannelID,
		AutoAnnounceWinners: req.AutoAnnounceWinners,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found community")
		}

		xcontext.Logger(ctx).Errorf("Cannot update discord of community: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommunityDiscordResponse{}, nil
}

// generateHandle derives a handle from the display name. A random suffix is
// appended while the handle is taken.
func (d *communityDomain) generateHandle(ctx context.Context, displayName string) (string, error) {
	origin := []rune{}
	for _, c := range displayName {
		if c <= unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_') {
			origin = append(origin, unicode.ToLower(c))
		} else if c == ' ' {
			origin = append(origin, '_')
		}
	}

	if len(origin) > 24 {
		origin = origin[:24]
	}

	handle := string(origin)
	for power := 2; ; power++ {
		if checkCommunityHandle(handle) == nil {
			_, err := d.communityRepo.GetByHandle(ctx, handle)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return handle, nil
			}

			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get community by handle: %v", err)
				return "", errorx.Unknown
			}
		}

		handle = fmt.Sprintf("%s_%d", string(origin), crypto.RandIntn(int(math.Pow10(power))))
	}
}

func checkCommunityHandle(handle string) error {
	if len(handle) < 4 {
		return errorx.New(errorx.BadRequest, "Handle too short (at least 4 characters)")
	}

	if len(handle) > 32 {
		return errorx.New(errorx.BadRequest, "Handle too long (at most 32 characters)")
	}

	if !communityHandleRegex.MatchString(handle) {
		return errorx.New(errorx.BadRequest, "Handle contains invalid characters")
	}

	return nil
}

func checkDiscordIDs(guildID, channelID string, autoAnnounce bool) error {
	if guildID != "" {
		if _, err := discord.SnowflakeTime(guildID); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid Discord guild id")
		}
	}

	if channelID != "" {
		if guildID == "" {
			return errorx.New(errorx.BadRequest, "Winner channel requires a Discord guild")
		}

		if _, err := discord.SnowflakeTime(channelID); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid Discord channel id")
		}
	}

	if autoAnnounce && channelID == "" {
		return errorx.New(errorx.BadRequest, "Auto announcement requires a winner channel")
	}

	return nil
}
