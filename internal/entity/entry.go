package entity

import (
	"database/sql"

	"github.com/droplabz/backend/pkg/enum"
)

type EntryStatus string

var (
	EntryStatusPending = enum.New(EntryStatus("PENDING"))
	EntryStatusValid   = enum.New(EntryStatus("VALID"))
	EntryStatusInvalid = enum.New(EntryStatus("INVALID"))
)

type RequirementResult struct {
	RequirementID string          `json:"requirement_id"`
	Type          RequirementType `json:"type"`
	Valid         bool            `json:"valid"`
	Reason        string          `json:"reason,omitempty"`
}

type Entry struct {
	Base

	EventID string `gorm:"uniqueIndex:idx_entries_event_wallet;size:36"`
	Event   Event  `gorm:"foreignKey:EventID"`

	WalletAddress string `gorm:"uniqueIndex:idx_entries_event_wallet;size:64"`
	DiscordUserID string `gorm:"index;size:32"`

	Status             EntryStatus
	VerificationResult Array[RequirementResult]
	VerifiedAt         sql.NullTime

	IsIneligible        bool
	IneligibilityReason string
}
