//go:build linux

package bench

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"
)

const rlimInfinity = ^uint64(0)

// applyMemLimit caps the address space of process pid at fraction of the
// machine's physical memory, never raising the process's current soft limit.
func applyMemLimit(pid int, fraction float64) error {
	if fraction <= 0 {
		return nil
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("read physical memory: %w", err)
	}

	limit := uint64(float64(vm.Total) * fraction)

	var cur unix.Rlimit
	if err := unix.Prlimit(pid, unix.RLIMIT_AS, nil, &cur); err != nil {
		return fmt.Errorf("get RLIMIT_AS: %w", err)
	}
	if cur.Cur != rlimInfinity && cur.Cur > 0 && cur.Cur < limit {
		limit = cur.Cur
	}
	if cur.Max != rlimInfinity && limit > cur.Max {
		limit = cur.Max
	}

	next := unix.Rlimit{Cur: limit, Max: cur.Max}
	if err := unix.Prlimit(pid, unix.RLIMIT_AS, &next, nil); err != nil {
		return fmt.Errorf("set RLIMIT_AS: %w", err)
	}
	return nil
}
