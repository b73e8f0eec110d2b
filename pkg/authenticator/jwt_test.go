package authenticator_test

import (
	"testing"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})
	token, err := engine.Generate("user-1", accessToken{ID: "user-1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", obj.ID)

	other := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "other",
		Expiration: time.Minute,
	})
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: -time.Minute,
	})
	token, err := engine.Generate("user-1", accessToken{ID: "user-1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
