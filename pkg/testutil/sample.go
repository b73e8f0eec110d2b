package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewWallet returns the address of a freshly generated Solana keypair.
func NewWallet() string {
	return solana.NewWallet().PublicKey().String()
}

// SampleCommunity inserts a community whose zero fields are filled with
// random values. Non-zero fields of init overwrite the sample.
func SampleCommunity(ctx context.Context, init entity.Community) entity.Community {
	sample := entity.Community{
		Base:        entity.Base{ID: uuid.NewString()},
		Handle:      uuid.NewString()[:8],
		DisplayName: "Sample community",
		GuildID:     "1100000000000000000",
	}
	overwriteFields(&sample, init)
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}

	mustCreate(ctx, &sample)
	return sample
}

func SampleEvent(ctx context.Context, init entity.Event) entity.Event {
	sample := entity.Event{
		Base:          entity.Base{ID: uuid.NewString()},
		Title:         "Sample event",
		Type:          entity.EventTypeWhitelist,
		Status:        entity.EventStatusActive,
		SelectionMode: entity.SelectionModeRandom,
		MaxWinners:    10,
		EndAt:         time.Now().Add(time.Hour),
	}
	overwriteFields(&sample, init)
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}

	if sample.CommunityID == "" {
		sample.CommunityID = SampleCommunity(ctx, entity.Community{}).ID
	}

	mustCreate(ctx, &sample)
	return sample
}

func SampleRequirement(ctx context.Context, eventID string, t entity.RequirementType, cfg entity.Map) entity.Requirement {
	sample := entity.Requirement{
		Base:    entity.Base{ID: uuid.NewString()},
		EventID: eventID,
		Type:    t,
		Config:  cfg,
	}

	mustCreate(ctx, &sample)
	return sample
}

func SampleEntry(ctx context.Context, init entity.Entry) entity.Entry {
	sample := entity.Entry{
		Base:   entity.Base{ID: uuid.NewString()},
		Status: entity.EntryStatusValid,
	}
	overwriteFields(&sample, init)
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}

	if sample.WalletAddress == "" {
		sample.WalletAddress = NewWallet()
	}

	mustCreate(ctx, &sample)
	return sample
}

func SampleWinner(ctx context.Context, eventID, entryID string) entity.Winner {
	sample := entity.Winner{
		Base:     entity.Base{ID: uuid.NewString()},
		EventID:  eventID,
		EntryID:  entryID,
		PickedBy: "sample-admin",
		PickedAt: time.Now(),
	}

	mustCreate(ctx, &sample)
	if err := xcontext.DB(ctx).Model(&entity.Event{}).Where("id=?", eventID).
		UpdateColumn("winner_count", gorm.Expr("winner_count+?", 1)).Error; err != nil {
		panic(err)
	}

	return sample
}

func mustCreate(ctx context.Context, v any) {
	if err := xcontext.DB(ctx).Create(v).Error; err != nil {
		panic(err)
	}
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
