package entity

import "time"

// PickedBySystemFCFS marks winners assigned at entry time by first come
// first served events.
const PickedBySystemFCFS = "SYSTEM_FCFS"

// PickedBySystemAutoDraw marks winners drawn by the scheduler once an event
// ended.
const PickedBySystemAutoDraw = "SYSTEM_AUTO_DRAW"

type Winner struct {
	Base

	EventID string `gorm:"uniqueIndex:idx_winners_event_entry;size:36"`
	Event   Event  `gorm:"foreignKey:EventID"`

	EntryID string `gorm:"uniqueIndex:idx_winners_event_entry;size:36"`
	Entry   Entry  `gorm:"foreignKey:EntryID"`

	PickedBy string
	PickedAt time.Time
}
