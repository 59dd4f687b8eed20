package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/f9-o/devctl/pkg/errs"
)

// Lock serialises benchmark runs on one machine so that concurrent runs do
// not skew each other's timings.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the lock file at path without blocking. A lock held by
// another process yields an errs.ErrLocked error.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire bench lock: %w", err)
	}
	if !ok {
		return nil, errs.Newf(errs.ErrLocked, "bench.lock", "another benchmark run holds %s", path).
			WithResource(path).
			WithAdvice("wait for it to finish, or set bench.exclusive = false")
	}
	return &Lock{path: path, fl: fl}, nil
}

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
