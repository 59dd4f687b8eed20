package v1

import "github.com/spf13/cobra"

// Handler is the body of a command: it receives the invoked command and its
// positional arguments.
type Handler func(cmd *cobra.Command, args []string) error

// ExtensionFunc is the body of a command that extends another one.
// parent runs the extended command's own handler; the extension decides
// whether and when to call it, and with which arguments.
type ExtensionFunc func(cmd *cobra.Command, args []string, parent Handler) error
