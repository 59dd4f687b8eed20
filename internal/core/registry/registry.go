// Package registry keeps the ordered, sectioned set of devctl commands.
// Sections become cobra command groups in the root help and are what
// `devctl example` enumerates.
package registry

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/devctl/api/v1"
)

// Well-known section names.
const (
	SectionBuild = "build"
	SectionBench = "bench"
	SectionMeta  = "meta"
)

// Registry manages command registration and lookup.
type Registry struct {
	mu       sync.RWMutex
	order    []string                    // section names, first-registration order
	sections map[string][]*cobra.Command // section → commands in registration order
	byName   map[string]*cobra.Command   // command name → command
}

// New creates and returns an empty registry.
func New() *Registry {
	return &Registry{
		sections: make(map[string][]*cobra.Command),
		byName:   make(map[string]*cobra.Command),
	}
}

// Register adds cmds to section. Command names must be unique across all
// sections.
func (r *Registry) Register(section string, cmds ...*cobra.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range cmds {
		if _, dup := r.byName[c.Name()]; dup {
			return fmt.Errorf("command %q already registered", c.Name())
		}
	}

	if _, ok := r.sections[section]; !ok {
		r.order = append(r.order, section)
	}
	for _, c := range cmds {
		c.GroupID = section
		r.sections[section] = append(r.sections[section], c)
		r.byName[c.Name()] = c
	}
	return nil
}

// MustRegister is Register for static wiring; it panics on a duplicate name.
func (r *Registry) MustRegister(section string, cmds ...*cobra.Command) {
	if err := r.Register(section, cmds...); err != nil {
		panic(err)
	}
}

// Attach adds one cobra group per section and every registered command to root.
func (r *Registry) Attach(root *cobra.Command) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if !root.ContainsGroup(name) {
			root.AddGroup(&cobra.Group{ID: name, Title: title(name)})
		}
		root.AddCommand(r.sections[name]...)
	}
}

// Sections returns every section with its commands, in registration order.
func (r *Registry) Sections() []v1.CommandSection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]v1.CommandSection, 0, len(r.order))
	for _, name := range r.order {
		sec := v1.CommandSection{Name: name}
		for _, c := range r.sections[name] {
			sec.Commands = append(sec.Commands, v1.CommandInfo{Name: c.Name(), Short: c.Short})
		}
		out = append(out, sec)
	}
	return out
}

func title(section string) string {
	switch section {
	case SectionBuild:
		return "Build Commands:"
	case SectionBench:
		return "Benchmark Commands:"
	case SectionMeta:
		return "Project Commands:"
	default:
		return section + ":"
	}
}
