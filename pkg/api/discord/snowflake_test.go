package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnowflakeTime(t *testing.T) {
	// Example from the Discord developer documentation.
	created, err := SnowflakeTime("175928847299117063")
	require.NoError(t, err)
	require.Equal(t, int64(1462015105796), created.UnixMilli())

	_, err = SnowflakeTime("abc")
	require.Error(t, err)

	_, err = SnowflakeTime("0")
	require.Error(t, err)
}

func TestSnowflakeAt(t *testing.T) {
	at := time.Now().Add(-10 * 24 * time.Hour).Truncate(time.Millisecond)

	created, err := SnowflakeTime(SnowflakeAt(at))
	require.NoError(t, err)
	require.True(t, at.Equal(created))
}
