package middleware

import (
	"context"
	"strings"

	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/pkg/authenticator"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/router"
	"github.com/droplabz/backend/pkg/xcontext"
)

// NewAuthVerifier reads the access token from the Authorization header (or
// the access token cookie) and sets its subject as the request user id.
func NewAuthVerifier(engine authenticator.TokenEngine[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessToken(ctx)
		if token == "" {
			return ctx, nil
		}

		info, err := engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func Authenticate(ctx context.Context) (context.Context, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return ctx, nil
}

func accessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
