// Package v1 defines the public data types shared across all devctl layers.
package v1

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Benchmark modes
// ─────────────────────────────────────────────────────────────────────────────

// RunMode selects which form of the benchmark tool is invoked.
type RunMode string

const (
	// ModeRun executes the benchmark suite once against the current tree.
	ModeRun RunMode = "run"
	// ModeCompare runs the suite at two revisions and reports regressions.
	ModeCompare RunMode = "compare"
)

// WorkingTree is the revision name that stands for the current checkout.
const WorkingTree = "HEAD"

// ─────────────────────────────────────────────────────────────────────────────
// Runtime records (persisted in BoltDB)
// ─────────────────────────────────────────────────────────────────────────────

// RunRecord is an immutable history record of one benchmark invocation.
type RunRecord struct {
	ID         string    `json:"id"`
	Mode       RunMode   `json:"mode"`
	Tests      []string  `json:"tests,omitempty"`
	Submodules []string  `json:"submodules,omitempty"`
	Before     string    `json:"before,omitempty"`
	After      string    `json:"after,omitempty"`
	BeforeSHA  string    `json:"before_sha,omitempty"`
	AfterSHA   string    `json:"after_sha,omitempty"`
	ExitCode   int       `json:"exit_code"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`

	Machine *MachineInfo `json:"machine,omitempty"`
}

// MachineInfo describes the host a run executed on.
type MachineInfo struct {
	Hostname string  `json:"hostname,omitempty"`
	OS       string  `json:"os"`
	Arch     string  `json:"arch"`
	Platform string  `json:"platform,omitempty"`
	CPUModel string  `json:"cpu_model,omitempty"`
	CPUs     int     `json:"cpus"`
	MemTotal uint64  `json:"mem_total"`
	Load1    float64 `json:"load1"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Command registry
// ─────────────────────────────────────────────────────────────────────────────

// CommandInfo describes one registered command.
type CommandInfo struct {
	Name  string `json:"name"`
	Short string `json:"short"`
}

// CommandSection is a named, ordered group of commands.
type CommandSection struct {
	Name     string        `json:"name"`
	Commands []CommandInfo `json:"commands"`
}
