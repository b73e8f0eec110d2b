package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteTemplate(t *testing.T) {
	s, err := ExecuteTemplate("Hello {{.Name}}", map[string]string{"Name": "world"})
	require.NoError(t, err)
	require.Equal(t, "Hello world", s)

	_, err = ExecuteTemplate("{{.Name", nil)
	require.Error(t, err)
}
