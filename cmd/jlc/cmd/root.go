package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jlc",
	Short: "jlc compiles JL source files to stack-VM assembly",
	Long: `jlc is a compiler for the JL language.

It translates one or more .jl source files, each containing a single
class declaration, into stack-VM assembly (.vm) files targeting a
segmented virtual machine: static, this, argument, local, constant,
pointer, temp, and that.`,
}

// Execute runs the command tree and returns the first error encountered.
// main translates the returned error into one of the process exit codes
// spec.md §7 defines.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print each file as it is compiled")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
