package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNormalizeCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	NormalizeCmd.SetOut(&out)
	NormalizeCmd.SetErr(&out)
	NormalizeCmd.SetArgs(args)
	require.NoError(t, NormalizeCmd.Execute())
	return out.String()
}

func TestNormalizeCommand(t *testing.T) {
	out := runNormalizeCommand(t, "--anchor", "2012-06-02", "yesterday")
	assert.Equal(t, "2012-06-01\n", out)
}

func TestNormalizeCommandUnresolved(t *testing.T) {
	out := runNormalizeCommand(t, "--anchor", "2012-06-02", "sometime")
	assert.Equal(t, "UNRESOLVED\n", out)
}

func TestNormalizeCommandDuration(t *testing.T) {
	out := runNormalizeCommand(t, "--anchor", "2012-06-02", "three weeks")
	assert.Equal(t, "P3W\n", out)
}

func TestNormalizeCommandBadAnchor(t *testing.T) {
	NormalizeCmd.SetArgs([]string{"--anchor", "junk", "yesterday"})
	err := NormalizeCmd.Execute()
	require.Error(t, err)
}
