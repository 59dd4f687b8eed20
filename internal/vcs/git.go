// Package vcs answers the version-control questions devctl needs: resolving
// revisions to commit hashes, detecting uncommitted work and locating the
// repository root. It shells out to the git CLI.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/f9-o/devctl/pkg/errs"
)

// Git runs git commands against one working directory.
type Git struct {
	dir string
	bin string
}

// New returns a Git bound to dir. An empty dir means the process CWD.
func New(dir string) *Git {
	return &Git{dir: dir, bin: "git"}
}

// RevParse resolves ref (branch, tag, hash, HEAD, ...) to a full commit hash.
func (g *Git) RevParse(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" || strings.HasPrefix(ref, "-") {
		return "", errs.Newf(errs.ErrRevision, "git.rev-parse", "invalid revision %q", ref).WithResource(ref)
	}
	out, err := g.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", errs.Wrap(err, errs.ErrRevision, "git.rev-parse").
			WithResource(ref).
			WithAdvice("check that the branch, tag or commit exists in this repository")
	}
	return strings.TrimSpace(out), nil
}

// HasUncommittedChanges reports whether the index or the working tree
// differs from HEAD.
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	staged, err := g.differs(ctx, "diff-index", "--quiet", "--cached", "HEAD")
	if err != nil {
		return false, errs.Wrap(err, errs.ErrGitStatus, "git.diff-index")
	}
	unstaged, err := g.differs(ctx, "diff-files", "--quiet")
	if err != nil {
		return false, errs.Wrap(err, errs.ErrGitStatus, "git.diff-files")
	}
	return staged || unstaged, nil
}

// TopLevel returns the absolute path of the repository's working tree root.
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errs.Wrap(err, errs.ErrGitRoot, "git.show-toplevel")
	}
	return strings.TrimSpace(out), nil
}

// differs runs a --quiet diff command: exit 0 means clean, exit 1 means
// differences, anything else is an error.
func (g *Git) differs(ctx context.Context, args ...string) (bool, error) {
	_, err := g.run(ctx, args...)
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// run executes git with args and returns stdout. Failures carry git's stderr.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	if g.dir != "" {
		args = append([]string{"-C", g.dir}, args...)
	}
	cmd := exec.CommandContext(ctx, g.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", &gitError{args: args, stderr: msg, err: err}
	}
	return stdout.String(), nil
}

// gitError keeps the underlying *exec.ExitError reachable via errors.As.
type gitError struct {
	args   []string
	stderr string
	err    error
}

func (e *gitError) Error() string {
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.args, " "), e.err, e.stderr)
}

func (e *gitError) Unwrap() error { return e.err }
