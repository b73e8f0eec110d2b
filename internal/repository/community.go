package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/droplabz/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const communityCacheTTL = 10 * time.Minute

type CommunityRepository interface {
	Create(ctx context.Context, e *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Community, error)
	UpdateDiscord(ctx context.Context, id string, data UpdateCommunityDiscordData) error
}

type UpdateCommunityDiscordData struct {
	GuildID             string
	WinnerChannelID     string
	AutoAnnounceWinners bool
}

type communityRepository struct {
	redisClient xredis.Client
}

// NewCommunityRepository creates the repository. The redis client is
// optional, communities are read from database directly without it.
func NewCommunityRepository(redisClient xredis.Client) *communityRepository {
	return &communityRepository{redisClient: redisClient}
}

func (r *communityRepository) cacheKeyByID(communityID string) string {
	return fmt.Sprintf("cache:community:%s", communityID)
}

func (r *communityRepository) Create(ctx context.Context, e *entity.Community) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	if r.redisClient != nil {
		var cached entity.Community
		err := r.redisClient.GetObj(ctx, r.cacheKeyByID(id), &cached)
		if err == nil {
			return &cached, nil
		}

		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get community from redis: %v", err)
		}
	}

	var record entity.Community
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		if err := r.redisClient.SetObj(ctx, r.cacheKeyByID(id), record, communityCacheTTL); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache community: %v", err)
		}
	}

	return &record, nil
}

func (r *communityRepository) GetByHandle(ctx context.Context, handle string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) UpdateDiscord(
	ctx context.Context, id string, data UpdateCommunityDiscordData,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Community{}).Where("id=?", id).
		Updates(map[string]any{
			"guild_id":              data.GuildID,
			"winner_channel_id":     data.WinnerChannelID,
			"auto_announce_winners": data.AutoAnnounceWinners,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redisClient != nil {
		if err := r.redisClient.Del(ctx, r.cacheKeyByID(id)); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot invalidate community cache: %v", err)
		}
	}

	return nil
}
