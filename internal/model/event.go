package model

import "time"

type CreateRequirementRequest struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

type CreateEventRequest struct {
	CommunityID   string                     `json:"community_id"`
	Title         string                     `json:"title"`
	Type          string                     `json:"type"`
	SelectionMode string                     `json:"selection_mode"`
	MaxWinners    int                        `json:"max_winners"`
	ReservedSpots int                        `json:"reserved_spots"`
	EndAt         time.Time                  `json:"end_at"`
	AutoDraw      bool                       `json:"auto_draw"`
	Draft         bool                       `json:"draft"`
	Requirements  []CreateRequirementRequest `json:"requirements"`
}

type CreateEventResponse struct {
	Event Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `form:"event_id" json:"event_id"`
}

type GetEventResponse struct {
	Event Event `json:"event"`
}

type CloseEventRequest struct {
	EventID string `json:"event_id"`
}

type CloseEventResponse struct{}

type CreateCommunityRequest struct {
	Handle              string `json:"handle"`
	DisplayName         string `json:"display_name"`
	GuildID             string `json:"guild_id"`
	WinnerChannelID     string `json:"winner_channel_id"`
	AutoAnnounceWinners bool   `json:"auto_announce_winners"`
}

type CreateCommunityResponse struct {
	Community Community `json:"community"`
}

type GetCommunityRequest struct {
	CommunityID string `form:"community_id" json:"community_id"`
}

type GetCommunityResponse struct {
	Community Community `json:"community"`
}

type UpdateCommunityDiscordRequest struct {
	CommunityID         string `json:"community_id"`
	GuildID             string `json:"guild_id"`
	WinnerChannelID     string `json:"winner_channel_id"`
	AutoAnnounceWinners bool   `json:"auto_announce_winners"`
}

type UpdateCommunityDiscordResponse struct{}

type SetAutoDrawRequest struct {
	EventID string `json:"event_id"`
	Enabled bool   `json:"enabled"`
}

type SetAutoDrawResponse struct {
	EventID     string `json:"event_id"`
	AutoDraw    bool   `json:"auto_draw"`
	ScheduledAt string `json:"scheduled_at"`
}

type GetGuildRolesRequest struct {
	CommunityID string `form:"community_id" json:"community_id"`
}

type GetGuildRolesResponse struct {
	Roles []GuildRole `json:"roles"`
}

type GetAuditLogsRequest struct {
	CommunityID string `form:"community_id" json:"community_id"`
	Limit       int    `form:"limit" json:"limit"`
}

type GetAuditLogsResponse struct {
	AuditLogs []AuditLog `json:"audit_logs"`
}
