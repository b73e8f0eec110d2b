package entity

// OAuth2 links an application user to an external account. The access token
// is used to read the member profile of linked Discord accounts.
type OAuth2 struct {
	UserID string `gorm:"primaryKey;size:36"`

	Service       string `gorm:"primaryKey;size:32"`
	ServiceUserID string `gorm:"index;size:64"`

	AccessToken string
}

func (OAuth2) TableName() string {
	return "oauth2"
}
