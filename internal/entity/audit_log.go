package entity

import "github.com/droplabz/backend/pkg/enum"

type AuditAction string

var (
	AuditEntriesMarkedIneligible = enum.New(AuditAction("ENTRIES_MARKED_INELIGIBLE"))
	AuditEntryEligibilityUpdated = enum.New(AuditAction("ENTRY_ELIGIBILITY_UPDATED"))
	AuditAutoDrawScheduled       = enum.New(AuditAction("AUTO_DRAW_SCHEDULED"))
	AuditAutoDrawCompleted       = enum.New(AuditAction("AUTO_DRAW_COMPLETED"))
	AuditWinnersAnnounced        = enum.New(AuditAction("WINNERS_ANNOUNCED"))
)

// AuditLog records an administrative action taken in a community.
type AuditLog struct {
	Base

	CommunityID string    `gorm:"index;size:36"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	ActorID string
	Action  AuditAction
	Meta    Map
}
