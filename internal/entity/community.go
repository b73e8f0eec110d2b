package entity

type Community struct {
	Base

	Handle      string `gorm:"unique;size:64"`
	DisplayName string
	CreatedBy   string

	// Discord server linked to this community. Discord requirements of its
	// events are checked against this guild.
	GuildID             string
	WinnerChannelID     string
	AutoAnnounceWinners bool
}
