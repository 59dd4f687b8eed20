//go:build linux

package bench

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestApplyMemLimitCapsChild(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sleep: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	var before unix.Rlimit
	require.NoError(t, unix.Prlimit(cmd.Process.Pid, unix.RLIMIT_AS, nil, &before))

	require.NoError(t, applyMemLimit(cmd.Process.Pid, 0.5))

	var after unix.Rlimit
	require.NoError(t, unix.Prlimit(cmd.Process.Pid, unix.RLIMIT_AS, nil, &after))
	assert.Positive(t, after.Cur)
	assert.LessOrEqual(t, after.Cur, before.Cur)
	assert.Equal(t, before.Max, after.Max, "the hard limit is left alone")
}

func TestApplyMemLimitDisabled(t *testing.T) {
	assert.NoError(t, applyMemLimit(-1, 0))
}
