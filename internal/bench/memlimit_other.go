//go:build !linux

package bench

import "errors"

// applyMemLimit is unsupported off Linux: there is no way to set another
// process's resource limits.
func applyMemLimit(pid int, fraction float64) error {
	if fraction <= 0 {
		return nil
	}
	return errors.ErrUnsupported
}
