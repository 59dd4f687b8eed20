package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f9-o/devctl/internal/core/registry"
)

func TestExampleDefaults(t *testing.T) {
	rt := newTestRuntime(t)
	build := NewBuildCmd()
	rt.Registry.MustRegister(registry.SectionBuild, build, NewBuildExtCmd(build))
	rt.Registry.MustRegister(registry.SectionBench, NewBenchCmd())
	rt.Config.Tool = map[string]any{"package": "linalg"}

	out, err := execute(t, rt, NewExampleCmd())
	require.NoError(t, err)

	assert.Contains(t, out, "Running example custom command")
	assert.Contains(t, out, "Flag provided with --flag is: <none>")
	assert.Contains(t, out, "Flag provided with --test is: not set")
	assert.Contains(t, out, "Defined commands:")
	assert.Contains(t, out, "  build: build, build-ext\n")
	assert.Contains(t, out, "  bench: bench\n")
	assert.Contains(t, out, "Tool config is:")
	assert.Contains(t, out, "{\n  \"package\": \"linalg\"\n}")
}

func TestExampleFlags(t *testing.T) {
	rt := newTestRuntime(t)

	out, err := execute(t, rt, NewExampleCmd(), "-f", "abc", "--test", "xyz")
	require.NoError(t, err)
	assert.Contains(t, out, "Flag provided with --flag is: abc")
	assert.Contains(t, out, "Flag provided with --test is: xyz")
	assert.Contains(t, out, "{}", "an empty [tool] table prints as an empty object")
}

func TestExampleEmptyTestFlag(t *testing.T) {
	rt := newTestRuntime(t)

	out, err := execute(t, rt, NewExampleCmd(), "--test=")
	require.NoError(t, err)
	assert.Contains(t, out, "Flag provided with --test is: <none>")
}
