package bench

import (
	"os"
	"sort"
	"strings"
)

// Overlay is a set of environment overrides applied only to a child process.
type Overlay struct {
	// PathPrepend entries go in front of the inherited PATH.
	PathPrepend []string
	// Set pins variables to fixed values.
	Set map[string]string
}

// NewOverlay returns the benchmark overlay: extra search directories in
// front of PATH, every thread variable pinned to 1, and extra pins on top.
func NewOverlay(extraPath, threadVars []string, extra map[string]string) Overlay {
	set := make(map[string]string, len(threadVars)+len(extra))
	for _, name := range threadVars {
		set[name] = "1"
	}
	for k, v := range extra {
		set[k] = v
	}
	return Overlay{PathPrepend: append([]string(nil), extraPath...), Set: set}
}

// Environ layers the overlay on a copy of base (KEY=VALUE entries) and
// returns the result. base is not modified.
func (o Overlay) Environ(base []string) []string {
	out := make([]string, 0, len(base)+len(o.Set)+1)
	inheritedPath := ""
	for _, kv := range base {
		key, val, _ := strings.Cut(kv, "=")
		if key == "PATH" {
			inheritedPath = val
			continue
		}
		if _, pinned := o.Set[key]; pinned {
			continue
		}
		out = append(out, kv)
	}

	if path := joinPath(o.PathPrepend, inheritedPath); path != "" {
		out = append(out, "PATH="+path)
	}

	keys := make([]string, 0, len(o.Set))
	for k := range o.Set {
		if k == "PATH" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+o.Set[k])
	}
	return out
}

func joinPath(prepend []string, inherited string) string {
	parts := append([]string(nil), prepend...)
	if inherited != "" {
		parts = append(parts, strings.Split(inherited, string(os.PathListSeparator))...)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}
