// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"
	"path/filepath"

	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/internal/core/logger"
	"github.com/f9-o/devctl/internal/core/registry"
	"github.com/f9-o/devctl/internal/core/state"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "devctl.runtime"

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	ConfigFile string
	Debug      bool
	JSONOutput bool
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config   *config.Config
	Log      *logger.Logger
	State    *state.DB // nil when history is unavailable
	Registry *registry.Registry
	Root     string // project root; every relative config path resolves against it
	Flags    GlobalFlags
}

// Path resolves p against the project root unless it is already absolute.
func (rt *Runtime) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rt.Root, p)
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("devctl: Runtime not found in context; missing PersistentPreRunE?")
	}
	return rt
}
