// Package manifest loads the TOML generation manifest: which frameworks to
// bind, from which dump and stub-descriptor files, into which package.
package manifest

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

type Manifest struct {
	Package    string      `toml:"package"`
	Output     string      `toml:"output"`
	Frameworks []Framework `toml:"framework"`
}

// Framework names one binding target. Dump and TBD are both optional but at
// least one must be present for the entry to produce anything.
type Framework struct {
	Name string   `toml:"name"`
	Dump string   `toml:"dump"`
	TBD  []string `toml:"tbd"`
}

func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrapf(err, "loading manifest %s", path)
	}

	if m.Package == "" {
		m.Package = "bindings"
	}
	if m.Output == "" {
		m.Output = "."
	}

	if len(m.Frameworks) == 0 {
		return nil, errors.Newf("manifest %s names no frameworks", path)
	}
	for _, fw := range m.Frameworks {
		if fw.Name == "" {
			return nil, errors.Newf("manifest %s has a framework entry without a name", path)
		}
		if fw.Dump == "" && len(fw.TBD) == 0 {
			return nil, errors.Newf("framework %s has neither a dump nor a stub descriptor", fw.Name)
		}
	}

	return &m, nil
}
