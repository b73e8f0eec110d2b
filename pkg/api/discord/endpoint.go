package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/pkg/api"
	"github.com/puzpuzpuz/xsync"
)

const apiURL = "https://discord.com/api/v10"
const userAgent = "DiscordBot (https://droplabz.io, 1.0)"

const (
	getMemberResource     = "get_member"
	createMessageResource = "create_message"
)

// codeUnknownMember and codeUnknownGuild are JSON error codes of the Discord
// API.
const (
	codeUnknownGuild  = 10004
	codeUnknownMember = 10007
)

var ErrMemberNotFound = errors.New("member not found")
var ErrMissingBotToken = errors.New("missing bot token")

type Endpoint struct {
	BotToken string
	BotID    string

	maxRetries        int
	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New(cfg config.DiscordConfigs, maxRetries int) *Endpoint {
	return &Endpoint{
		BotToken:          cfg.BotToken,
		BotID:             cfg.BotID,
		maxRetries:        maxRetries,
		apiGenerator:      api.NewGenerator(),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

func (e *Endpoint) HasBotToken() bool {
	return e.BotToken != ""
}

// GetMember returns the member of guild using the bot token. ErrMemberNotFound
// is returned if the user is not in the guild.
func (e *Endpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	if !e.HasBotToken() {
		return Member{}, ErrMissingBotToken
	}

	if err := e.checkLimitingResource(getMemberResource, guildID); err != nil {
		return Member{}, err
	}

	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/members/%s", guildID, userID).
		Header("User-Agent", userAgent).
		Retry(e.maxRetries).
		GET(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return Member{}, err
	}

	if err := e.checkTooManyRequest(resp, getMemberResource, guildID); err != nil {
		return Member{}, err
	}

	return parseMember(resp)
}

// GetCurrentMember returns the member of guild which the access token belongs
// to.
func (e *Endpoint) GetCurrentMember(ctx context.Context, guildID, accessToken string) (Member, error) {
	resp, err := e.apiGenerator.New(apiURL, "/users/@me/guilds/%s/member", guildID).
		Header("User-Agent", userAgent).
		Retry(e.maxRetries).
		GET(ctx, api.OAuth2("Bearer", accessToken))
	if err != nil {
		return Member{}, err
	}

	if err := e.checkTooManyRequest(resp, getMemberResource, guildID); err != nil {
		return Member{}, err
	}

	return parseMember(resp)
}

func (e *Endpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	if !e.HasBotToken() {
		return nil, ErrMissingBotToken
	}

	resp, err := e.apiGenerator.New(apiURL, "/guilds/%s/roles", guildID).
		Header("User-Agent", userAgent).
		Retry(e.maxRetries).
		GET(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return nil, err
	}

	array, ok := resp.Body.(api.Array)
	if !ok {
		return nil, fmt.Errorf("invalid response (status %d)", resp.Code)
	}

	var roles []Role
	for _, role := range array {
		id, err := role.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := role.GetString("name")
		if err != nil {
			return nil, err
		}

		position, err := role.GetInt("position")
		if err != nil {
			return nil, err
		}

		roles = append(roles, Role{ID: id, Name: name, Position: position})
	}

	return roles, nil
}

// CreateMessage posts content to the channel and returns the message id.
func (e *Endpoint) CreateMessage(ctx context.Context, channelID, content string) (string, error) {
	if !e.HasBotToken() {
		return "", ErrMissingBotToken
	}

	if err := e.checkLimitingResource(createMessageResource, channelID); err != nil {
		return "", err
	}

	resp, err := e.apiGenerator.New(apiURL, "/channels/%s/messages", channelID).
		Header("User-Agent", userAgent).
		Body(api.JSON{"content": content}).
		POST(ctx, api.OAuth2("Bot", e.BotToken))
	if err != nil {
		return "", err
	}

	if err := e.checkTooManyRequest(resp, createMessageResource, channelID); err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", fmt.Errorf("invalid response (status %d)", resp.Code)
	}

	if resp.Code != http.StatusOK && resp.Code != http.StatusCreated {
		message, _ := body.GetString("message")
		return "", fmt.Errorf("cannot create message (status %d): %s", resp.Code, message)
	}

	return body.GetString("id")
}

func parseMember(resp *api.Response) (Member, error) {
	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Member{}, fmt.Errorf("invalid response (status %d)", resp.Code)
	}

	if resp.Code == http.StatusNotFound {
		return Member{}, ErrMemberNotFound
	}

	// If response has the field of code, an error is returned.
	if code, err := body.GetInt("code"); err == nil {
		if code == codeUnknownMember || code == codeUnknownGuild {
			return Member{}, ErrMemberNotFound
		}

		message, _ := body.GetString("message")
		return Member{}, fmt.Errorf("discord error %d: %s", code, message)
	}

	if resp.Code != http.StatusOK {
		return Member{}, fmt.Errorf("unexpected status %d", resp.Code)
	}

	userID, err := body.GetString("user.id")
	if err != nil {
		return Member{}, err
	}

	roles, err := body.GetStringArray("roles")
	if err != nil {
		return Member{}, err
	}

	joinedAt, err := body.GetTime("joined_at", time.RFC3339Nano)
	if err != nil {
		return Member{}, err
	}

	return Member{User: User{ID: userID}, Roles: roles, JoinedAt: joinedAt}, nil
}

func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	if limit, ok := e.rateLimitResource.Load(resource); ok {
		if resetAt, ok := limit.Load(identifier); ok {
			if resetAt.After(time.Now()) {
				return wrapRateLimit(resetAt.Unix())
			}

			// If the rate limit is reset, delete the limit for this resource.
			limit.Delete(identifier)
		}
	}

	return nil
}

func (e *Endpoint) checkTooManyRequest(resp *api.Response, resource, identifier string) error {
	if resp.Code == http.StatusTooManyRequests {
		resetAt, err := strconv.ParseFloat(resp.Header.Get("X-Ratelimit-Reset"), 64)
		if err != nil {
			return err
		}

		resourceLimiter, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
		resourceLimiter.Store(identifier, time.Unix(int64(resetAt), 0))
		return wrapRateLimit(int64(resetAt))
	}

	return nil
}
