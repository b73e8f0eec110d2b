package model

type Community struct {
	ID                  string `json:"id"`
	Handle              string `json:"handle"`
	DisplayName         string `json:"display_name"`
	GuildID             string `json:"guild_id"`
	WinnerChannelID     string `json:"winner_channel_id"`
	AutoAnnounceWinners bool   `json:"auto_announce_winners"`
}

type Requirement struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Config    map[string]any `json:"config"`
	Statement string         `json:"statement,omitempty"`
}

type Event struct {
	ID            string        `json:"id"`
	CommunityID   string        `json:"community_id"`
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	SelectionMode string        `json:"selection_mode"`
	MaxWinners    int           `json:"max_winners"`
	ReservedSpots int           `json:"reserved_spots"`
	WinnerCount   int           `json:"winner_count"`
	AutoDraw      bool          `json:"auto_draw"`
	EndAt         string        `json:"end_at"`
	CreatedAt     string        `json:"created_at"`
	Requirements  []Requirement `json:"requirements,omitempty"`
}

type RequirementResult struct {
	RequirementID string `json:"requirement_id"`
	Type          string `json:"type"`
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
}

type Entry struct {
	ID                  string              `json:"id"`
	EventID             string              `json:"event_id"`
	WalletAddress       string              `json:"wallet_address"`
	DiscordUserID       string              `json:"discord_user_id,omitempty"`
	Status              string              `json:"status"`
	VerificationResult  []RequirementResult `json:"verification_result"`
	VerifiedAt          string              `json:"verified_at,omitempty"`
	IsIneligible        bool                `json:"is_ineligible"`
	IneligibilityReason string              `json:"ineligibility_reason,omitempty"`
	CreatedAt           string              `json:"created_at"`
}

type Winner struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	EntryID  string `json:"entry_id"`
	Entry    *Entry `json:"entry,omitempty"`
	PickedBy string `json:"picked_by"`
	PickedAt string `json:"picked_at"`
}

type DuplicateSignal struct {
	Type            string   `json:"type"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	RelatedEntryIDs []string `json:"related_entry_ids"`
}

type DuplicateAnalysis struct {
	EntryID              string            `json:"entry_id"`
	WalletAddress        string            `json:"wallet_address"`
	DiscordUserID        string            `json:"discord_user_id,omitempty"`
	IsPotentialDuplicate bool              `json:"is_potential_duplicate"`
	Signals              []DuplicateSignal `json:"signals"`
	RiskScore            int               `json:"risk_score"`
}

type DiscordDuplicate struct {
	DiscordUserID string   `json:"discord_user_id"`
	WalletCount   int      `json:"wallet_count"`
	EntryIDs      []string `json:"entry_ids"`
}

type AccessToken struct {
	ID string `json:"id"`
}

type GuildRole struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type AuditLog struct {
	ID          string         `json:"id"`
	CommunityID string         `json:"community_id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	Meta        map[string]any `json:"meta"`
	CreatedAt   string         `json:"created_at"`
}
