package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"objcbind/internal/tbd"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <tbd-file>",
	Short: "List a stub descriptor's exports and their best-effort classification",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	info := tbd.Parse(string(content))
	if info == nil {
		return errors.Newf("%s is not a recognized TBD descriptor", args[0])
	}

	printSection("Functions", info.FunctionSymbols())
	printSection("Constants", info.ConstantSymbols())
	printSection("Objective-C classes", info.ObjCClasses)
	printSection("Objective-C ivars", info.ObjCIvars)

	fmt.Printf("%d symbols total\n", len(info.Symbols))
	return nil
}

func printSection(title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
}
