package discord

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/pkg/api"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint(client api.MockAPIClient) *Endpoint {
	endpoint := New(config.DiscordConfigs{BotToken: "bot-token", BotID: "bot-id"}, 0)
	endpoint.apiGenerator = &api.MockAPIGenerator{MockClient: client}
	return endpoint
}

func Test_Endpoint_GetMember(t *testing.T) {
	endpoint := newTestEndpoint(api.MockAPIClient{
		GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
			return &api.Response{
				Code: http.StatusOK,
				Body: api.JSON{
					"user":      map[string]any{"id": "user-1"},
					"roles":     []any{"R1", "R2"},
					"joined_at": "2023-03-01T10:00:00.123000+00:00",
				},
			}, nil
		},
	})

	member, err := endpoint.GetMember(context.Background(), "guild-1", "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", member.User.ID)
	require.Equal(t, []string{"R1", "R2"}, member.Roles)
	require.Equal(t, time.Date(2023, 3, 1, 10, 0, 0, 123000000, time.UTC), member.JoinedAt.UTC())
}

func Test_Endpoint_GetMember_NotFound(t *testing.T) {
	endpoint := newTestEndpoint(api.MockAPIClient{
		GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
			return &api.Response{
				Code: http.StatusNotFound,
				Body: api.JSON{"code": float64(10007), "message": "Unknown Member"},
			}, nil
		},
	})

	_, err := endpoint.GetMember(context.Background(), "guild-1", "user-1")
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func Test_Endpoint_GetMember_MissingBotToken(t *testing.T) {
	endpoint := New(config.DiscordConfigs{}, 0)

	_, err := endpoint.GetMember(context.Background(), "guild-1", "user-1")
	require.ErrorIs(t, err, ErrMissingBotToken)
}

func Test_Endpoint_GetMember_TooManyRequest(t *testing.T) {
	resetAt := time.Now().Add(time.Second)
	endpoint := newTestEndpoint(api.MockAPIClient{
		GETFunc: func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
			return &api.Response{
				Code:   http.StatusTooManyRequests,
				Header: http.Header{"X-Ratelimit-Reset": []string{strconv.FormatInt(resetAt.Unix(), 10)}},
				Body:   api.JSON{},
			}, nil
		},
	})

	// Call API with a response of TooManyRequest.
	_, err := endpoint.GetMember(context.Background(), "guild-1", "user-1")
	gotResetAt, ok := IsRateLimit(err)
	require.True(t, ok)
	require.Equal(t, resetAt.Unix(), gotResetAt.Unix())

	// Check the resource with identifier, ensure that it is limited.
	err = endpoint.checkLimitingResource(getMemberResource, "guild-1")
	gotResetAt, ok = IsRateLimit(err)
	require.True(t, ok)
	require.Equal(t, resetAt.Unix(), gotResetAt.Unix())

	// Check another identifier, ensure that it is NOT limited.
	err = endpoint.checkLimitingResource(getMemberResource, "guild-2")
	require.NoError(t, err)

	// Sleep until the limiting of resource expired. Check again.
	time.Sleep(time.Until(resetAt.Truncate(time.Second).Add(time.Second)))
	err = endpoint.checkLimitingResource(getMemberResource, "guild-1")
	require.NoError(t, err)
}

func Test_Endpoint_CreateMessage(t *testing.T) {
	var gotBody api.Body
	generator := &api.MockAPIGenerator{}
	generator.MockClient.BodyFunc = func(body api.Body) api.Client {
		gotBody = body
		return &generator.MockClient
	}
	generator.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return &api.Response{Code: http.StatusOK, Body: api.JSON{"id": "message-1"}}, nil
	}

	endpoint := New(config.DiscordConfigs{BotToken: "bot-token"}, 0)
	endpoint.apiGenerator = generator

	id, err := endpoint.CreateMessage(context.Background(), "channel-1", "hello")
	require.NoError(t, err)
	require.Equal(t, "message-1", id)
	require.Equal(t, api.JSON{"content": "hello"}, gotBody)
}
