package entity

import (
	"time"

	"github.com/droplabz/backend/pkg/enum"
)

type EventType string

var (
	EventTypeWhitelist     = enum.New(EventType("WHITELIST"))
	EventTypePresale       = enum.New(EventType("PRESALE"))
	EventTypeCollaboration = enum.New(EventType("COLLABORATION"))
	EventTypeGiveaway      = enum.New(EventType("GIVEAWAY"))
)

type EventStatus string

var (
	EventStatusDraft  = enum.New(EventStatus("DRAFT"))
	EventStatusActive = enum.New(EventStatus("ACTIVE"))
	EventStatusClosed = enum.New(EventStatus("CLOSED"))
)

type SelectionMode string

var (
	SelectionModeRandom = enum.New(SelectionMode("RANDOM"))
	SelectionModeManual = enum.New(SelectionMode("MANUAL"))
	SelectionModeFCFS   = enum.New(SelectionMode("FCFS"))
)

type Event struct {
	Base

	CommunityID string    `gorm:"index;size:36"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	Title         string
	Type          EventType
	Status        EventStatus   `gorm:"index:idx_events_auto_draw,priority:1;size:16"`
	SelectionMode SelectionMode `gorm:"size:16"`

	MaxWinners    int
	ReservedSpots int

	// WinnerCount mirrors the number of Winner rows of this event. It is only
	// changed by conditional updates so that concurrent allocations can never
	// push it past MaxWinners-ReservedSpots.
	WinnerCount int

	AutoDraw bool      `gorm:"index:idx_events_auto_draw,priority:2"`
	EndAt    time.Time `gorm:"index:idx_events_auto_draw,priority:3"`
}

// Capacity is the number of winners the event can hold outside of
// reservations.
func (e *Event) Capacity() int {
	return e.MaxWinners - e.ReservedSpots
}
