package model

type CreateEntryRequest struct {
	EventID       string `json:"event_id"`
	WalletAddress string `json:"wallet_address"`
	DiscordUserID string `json:"discord_user_id"`
}

type CreateEntryResponse struct {
	Entry        Entry   `json:"entry"`
	Valid        bool    `json:"valid"`
	Winner       *Winner `json:"winner,omitempty"`
	FCFSAssigned bool    `json:"fcfs_assigned"`
}

type VerifyEntryRequest struct {
	EntryID string `json:"entry_id"`
}

type VerifyEntryResponse struct {
	Entry        Entry   `json:"entry"`
	Valid        bool    `json:"valid"`
	Winner       *Winner `json:"winner,omitempty"`
	FCFSAssigned bool    `json:"fcfs_assigned"`
}

type GetEntriesRequest struct {
	EventID string `form:"event_id" json:"event_id"`
	Status  string `form:"status" json:"status"`
}

type GetEntriesResponse struct {
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
}

type MarkIneligibleRequest struct {
	EventID  string   `json:"event_id"`
	EntryIDs []string `json:"entry_ids"`
	Reason   string   `json:"reason"`
}

type MarkIneligibleResponse struct {
	Updated int64 `json:"updated"`
}

type SetEligibilityRequest struct {
	EntryID      string `json:"entry_id"`
	IsIneligible bool   `json:"is_ineligible"`
	Reason       string `json:"reason"`
}

type SetEligibilityResponse struct {
	Entry          Entry `json:"entry"`
	DeletedWinners int64 `json:"deleted_winners"`
}

type GetDuplicatesRequest struct {
	EventID string `form:"event_id" json:"event_id"`
}

type GetDuplicatesResponse struct {
	Analyses          []DuplicateAnalysis `json:"analyses"`
	DiscordDuplicates []DiscordDuplicate  `json:"discord_duplicates"`
	DuplicateEntries  []Entry             `json:"duplicate_entries"`
	TotalDuplicates   int                 `json:"total_duplicates"`
}
