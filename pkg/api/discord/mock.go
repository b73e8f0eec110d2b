package discord

import "context"

type MockEndpoint struct {
	HasBotTokenFunc      func() bool
	GetMemberFunc        func(ctx context.Context, guildID, userID string) (Member, error)
	GetCurrentMemberFunc func(ctx context.Context, guildID, accessToken string) (Member, error)
	GetRolesFunc         func(ctx context.Context, guildID string) ([]Role, error)
	CreateMessageFunc    func(ctx context.Context, channelID, content string) (string, error)
}

func (e *MockEndpoint) HasBotToken() bool {
	if e.HasBotTokenFunc != nil {
		return e.HasBotTokenFunc()
	}

	return true
}

func (e *MockEndpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	if e.GetMemberFunc != nil {
		return e.GetMemberFunc(ctx, guildID, userID)
	}

	return Member{}, ErrMemberNotFound
}

func (e *MockEndpoint) GetCurrentMember(ctx context.Context, guildID, accessToken string) (Member, error) {
	if e.GetCurrentMemberFunc != nil {
		return e.GetCurrentMemberFunc(ctx, guildID, accessToken)
	}

	return Member{}, ErrMemberNotFound
}

func (e *MockEndpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	if e.GetRolesFunc != nil {
		return e.GetRolesFunc(ctx, guildID)
	}

	return nil, nil
}

func (e *MockEndpoint) CreateMessage(ctx context.Context, channelID, content string) (string, error) {
	if e.CreateMessageFunc != nil {
		return e.CreateMessageFunc(ctx, channelID, content)
	}

	return "", nil
}
