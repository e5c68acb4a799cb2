package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"objcbind/internal/classdump"
	"objcbind/internal/generation"
	"objcbind/internal/logging"
	"objcbind/internal/manifest"
	"objcbind/internal/tbd"
)

var (
	manifestPath string
	dumpPath     string
	tbdPaths     []string
	packageName  string
	framework    string
	outputPath   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go bindings from class-dump and stub-descriptor input",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&manifestPath, "manifest", "", "TOML manifest listing frameworks to bind")
	generateCmd.Flags().StringVar(&dumpPath, "dump", "", "Path to class-dump output")
	generateCmd.Flags().StringArrayVar(&tbdPaths, "tbd", nil, "Path to a TBD stub descriptor (repeatable)")
	generateCmd.Flags().StringVar(&packageName, "package", "bindings", "Package name for the generated code")
	generateCmd.Flags().StringVar(&framework, "framework", "Foundation", "Framework the bindings load at runtime")
	generateCmd.Flags().StringVar(&outputPath, "output", "./output", "Directory for the generated files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if manifestPath != "" {
		return generateFromManifest(manifestPath)
	}

	if dumpPath == "" && len(tbdPaths) == 0 {
		return errors.New("nothing to do: provide --manifest, --dump or --tbd")
	}

	return generateFramework(framework, packageName, dumpPath, tbdPaths, outputPath)
}

func generateFromManifest(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	for _, fw := range m.Frameworks {
		out := filepath.Join(m.Output, strings.ToLower(fw.Name))
		if err := generateFramework(fw.Name, m.Package, fw.Dump, fw.TBD, out); err != nil {
			return errors.Wrapf(err, "generating %s", fw.Name)
		}
	}

	return nil
}

func generateFramework(name, pkg, dump string, stubs []string, out string) error {
	gen := generation.NewGenerator(pkg, name)

	if dump != "" {
		content, err := os.ReadFile(dump)
		if err != nil {
			return errors.Wrapf(err, "reading class dump %s", dump)
		}
		classes := classdump.Parse(string(content))
		for _, class := range classes {
			gen.RegisterClass(class)
		}
		logging.Logger.Infow("parsed class dump",
			"framework", name,
			"path", dump,
			"classes", len(classes),
		)
	}

	if exports := loadStubs(name, stubs); exports != nil {
		gen.RegisterExports(exports)
	}

	files, err := gen.Generate()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", out)
	}

	for _, fileName := range []string{"runtime.go", "bindings.go", "exports.go"} {
		content, ok := files[fileName]
		if !ok {
			continue
		}
		target := filepath.Join(out, fileName)
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", target)
		}
		logging.Logger.Infow("wrote bindings file", "framework", name, "path", target)
	}

	return nil
}

// loadStubs merges every readable, recognized descriptor. An unrecognized
// document is logged and skipped; it poisons nothing else in the run.
func loadStubs(name string, stubs []string) *tbd.Info {
	var merged *tbd.Info
	for _, path := range stubs {
		content, err := os.ReadFile(path)
		if err != nil {
			logging.Logger.Warnw("skipping unreadable stub descriptor", "framework", name, "path", path, "error", err)
			continue
		}

		info := tbd.Parse(string(content))
		if info == nil {
			logging.Logger.Warnw("skipping unrecognized stub descriptor", "framework", name, "path", path)
			continue
		}

		if merged == nil {
			merged = &tbd.Info{}
		}
		merged.Merge(info)
		logging.Logger.Infow("parsed stub descriptor",
			"framework", name,
			"path", path,
			"symbols", len(info.Symbols),
			"objc_classes", len(info.ObjCClasses),
		)
	}
	return merged
}
