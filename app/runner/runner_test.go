package runner

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_MissingToolIsUnavailable(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), time.Second, "definitely-not-a-real-tool-xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExecRunner_CapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	out, err := ExecRunner{}.Run(context.Background(), time.Second, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecRunner_TimeoutIsBounded(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	start := time.Now()
	_, err := ExecRunner{}.Run(context.Background(), 50*time.Millisecond, "sleep", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}
