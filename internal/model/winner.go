package model

const WinnersCreatedTopic = "winners_created"

type DrawWinnersRequest struct {
	EventID         string   `json:"event_id"`
	Count           int      `json:"count"`
	ExcludeEntryIDs []string `json:"exclude_entry_ids"`
}

type DrawWinnersResponse struct {
	Winners        []Winner `json:"winners"`
	Count          int      `json:"count"`
	TotalEligible  int      `json:"total_eligible"`
	RemainingSpots int      `json:"remaining_spots"`
}

type PickWinnersRequest struct {
	EventID  string   `json:"event_id"`
	EntryIDs []string `json:"entry_ids"`
}

type PickWinnersResponse struct {
	Winners []Winner `json:"winners"`
	Count   int      `json:"count"`
}

type GetWinnersRequest struct {
	EventID string `form:"event_id" json:"event_id"`
}

type GetWinnersResponse struct {
	Winners []Winner `json:"winners"`
	Count   int      `json:"count"`
}

// WinnersCreated is published on the message bus after winners are created.
type WinnersCreated struct {
	EventID       string   `json:"event_id"`
	SelectionMode string   `json:"selection_mode"`
	PickedBy      string   `json:"picked_by"`
	EntryIDs      []string `json:"entry_ids"`
	Wallets       []string `json:"wallets"`
}

type AnnounceWinnersRequest struct {
	EventID   string `json:"event_id"`
	ChannelID string `json:"channel_id"`
}

type AnnounceWinnersResponse struct {
	MessageID string `json:"message_id"`
	URL       string `json:"url"`
	Announced int    `json:"announced"`
}
