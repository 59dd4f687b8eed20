// Package metrics samples the machine a benchmark run executes on, so that
// recorded timings can be compared only between like hosts.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	v1 "github.com/f9-o/devctl/api/v1"
)

// Sample reads the current host description. Every probe is independent: a
// failing one leaves its fields zero and is reported in the joined error,
// alongside whatever the others found.
func Sample(ctx context.Context) (v1.MachineInfo, error) {
	m := v1.MachineInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}
	var errs []error

	if h, err := host.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host info: %w", err))
	} else {
		m.Hostname = h.Hostname
		m.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
	}

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		errs = append(errs, fmt.Errorf("cpu count: %w", err))
	} else {
		m.CPUs = n
	}

	if infos, err := cpu.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("cpu model: %w", err))
	} else if len(infos) > 0 {
		m.CPUModel = infos[0].ModelName
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		m.MemTotal = vm.Total
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("load average: %w", err))
	} else {
		m.Load1 = avg.Load1
	}

	return m, errors.Join(errs...)
}

// Label is a one-line summary used in listings.
func Label(m v1.MachineInfo) string {
	name := m.Hostname
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%s (%s/%s, %d cpu, %.1f GiB)", name, m.OS, m.Arch, m.CPUs, float64(m.MemTotal)/(1<<30))
}
