package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/devctl/api/v1"
)

// recordingParent is a build-like command that prints its flags and args.
func recordingParent(fail error) *cobra.Command {
	var (
		jobs int
		gcov bool
	)
	cmd := &cobra.Command{
		Use: "build",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "parent jobs=%d gcov=%t args=%v\n", jobs, gcov, args)
			return fail
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "")
	cmd.Flags().BoolVar(&gcov, "gcov", false, "")
	return cmd
}

func TestExtendCarriesFlagsExceptRemoved(t *testing.T) {
	parent := recordingParent(nil)
	ext := Extend(parent, ExtendOptions{Use: "ext", Remove: []string{"gcov"}},
		func(cmd *cobra.Command, args []string, next v1.Handler) error { return next(cmd, args) })

	assert.NotNil(t, ext.Flags().Lookup("jobs"))
	assert.Equal(t, "j", ext.Flags().Lookup("jobs").Shorthand)
	assert.Nil(t, ext.Flags().Lookup("gcov"))
	assert.NotNil(t, parent.Flags().Lookup("gcov"), "the parent keeps its own flags")
}

func TestExtendDelegatesWithSharedFlagValues(t *testing.T) {
	rt := newTestRuntime(t)
	ext := Extend(recordingParent(nil), ExtendOptions{Use: "ext", Remove: []string{"gcov"}},
		func(cmd *cobra.Command, args []string, next v1.Handler) error {
			fmt.Fprintln(cmd.OutOrStdout(), "before")
			if err := next(cmd, args[1:]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "after")
			return nil
		})

	out, err := execute(t, rt, ext, "-j", "4", "drop", "keep")
	require.NoError(t, err)
	assert.Equal(t, "before\nparent jobs=4 gcov=false args=[keep]\nafter\n", out)
}

func TestExtendRejectsRemovedFlag(t *testing.T) {
	rt := newTestRuntime(t)
	ext := Extend(recordingParent(nil), ExtendOptions{Use: "ext", Remove: []string{"gcov"}},
		func(cmd *cobra.Command, args []string, next v1.Handler) error { return next(cmd, args) })

	_, err := execute(t, rt, ext, "--gcov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gcov")
}

func TestExtendPlainRunParent(t *testing.T) {
	called := false
	parent := &cobra.Command{Use: "p", Run: func(*cobra.Command, []string) { called = true }}
	ext := Extend(parent, ExtendOptions{Use: "e"},
		func(cmd *cobra.Command, args []string, next v1.Handler) error { return next(cmd, args) })

	_, err := execute(t, newTestRuntime(t), ext)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestExtendParentWithoutHandler(t *testing.T) {
	ext := Extend(&cobra.Command{Use: "group"}, ExtendOptions{Use: "e"},
		func(cmd *cobra.Command, args []string, next v1.Handler) error { return next(cmd, args) })

	_, err := execute(t, newTestRuntime(t), ext)
	assert.ErrorContains(t, err, "no handler")
}

func TestBuildExtWrapsParent(t *testing.T) {
	rt := newTestRuntime(t)
	ext := NewBuildExtCmd(recordingParent(nil))

	out, err := execute(t, rt, ext, "--extra", "3", "-j", "2")
	require.NoError(t, err)
	assert.Equal(t,
		"Preparing for build with extra=3\nparent jobs=2 gcov=false args=[]\nFinalizing build...\n",
		out)
}

func TestBuildExtStopsWhenParentFails(t *testing.T) {
	rt := newTestRuntime(t)
	boom := errors.New("compile failed")

	out, err := execute(t, rt, NewBuildExtCmd(recordingParent(boom)), "-e", "1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, out, "Preparing for build with extra=1")
	assert.NotContains(t, out, "Finalizing build...")
}
