package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"objcbind/internal/logging"
)

var jsonLogs bool

var rootCmd = &cobra.Command{
	Use:   "objcbind",
	Short: "Generate Go bindings for Objective-C runtime interfaces",
	Long: `objcbind turns textual descriptions of a compiled Objective-C
interface into Go foreign-call declarations.

It reads class-dump introspection output and TBD stub descriptors, decodes
the runtime type encodings, and emits purego-based objc_msgSend wrappers
with the dispatch entry point chosen per return type.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit JSON log output")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(symbolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
