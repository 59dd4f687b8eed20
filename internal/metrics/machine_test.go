package metrics

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/f9-o/devctl/api/v1"
)

func TestSample(t *testing.T) {
	m, err := Sample(context.Background())
	if err != nil {
		t.Logf("partial sample: %v", err)
	}
	assert.Equal(t, runtime.GOOS, m.OS)
	assert.Equal(t, runtime.GOARCH, m.Arch)
	assert.Positive(t, m.CPUs)
	assert.Positive(t, m.MemTotal)
}

func TestLabel(t *testing.T) {
	m := v1.MachineInfo{Hostname: "bench-01", OS: "linux", Arch: "amd64", CPUs: 8, MemTotal: 16 << 30}
	assert.Equal(t, "bench-01 (linux/amd64, 8 cpu, 16.0 GiB)", Label(m))

	assert.Contains(t, Label(v1.MachineInfo{}), "unknown")
}
