package discord

import "time"

type Role struct {
	ID       string
	Name     string
	Position int
}

type User struct {
	ID string
}

type Member struct {
	User     User
	Roles    []string
	JoinedAt time.Time
}
