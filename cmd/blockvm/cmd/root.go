package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "blockvm",
	Short: "A stack-based bytecode VM for Scratch-family visual programs",
	Long: `blockvm executes the compiled bytecode format a Scratch-family visual
programming environment emits: a flat instruction stream over a small
boolean/number/string value algebra, with constants, variables and lists
addressed by index.

This tool does not parse or compile visual blocks — it runs bytecode that
was either assembled from the textual form (see "blockvm run") or handed
in directly by an embedder.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
