package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerWithWriter(buf, WARNING)

	l.Infof("hidden %d", 1)
	require.Empty(t, buf.String())

	l.Warnf("shown %d", 2)
	require.Contains(t, buf.String(), "shown 2")

	l.Errorf("failed: %s", "boom")
	require.Contains(t, buf.String(), "failed: boom")
}

func TestLogger_Silence(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerWithWriter(buf, SILENCE)
	l.Errorf("nothing")
	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, WARNING, ParseLevel("WARN"))
	require.Equal(t, ERROR, ParseLevel("error"))
	require.Equal(t, SILENCE, ParseLevel("silence"))
	require.Equal(t, INFO, ParseLevel("whatever"))
}
