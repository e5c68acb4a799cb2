// Package tbd parses TBD (text-based dylib) stub descriptors and
// classifies their exported symbols.
package tbd

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Info is the flattened union of every export stanza in one descriptor:
// symbol names, Objective-C class names and instance-variable names, in
// document order with duplicates preserved.
type Info struct {
	Symbols     []string
	ObjCClasses []string
	ObjCIvars   []string
}

// The v3 and v4 schemas differ in surrounding fields but expose the same
// export stanza shape, so one document type covers both decodes.
type document struct {
	Exports []export `yaml:"exports"`
}

type export struct {
	Symbols     []string `yaml:"symbols"`
	ObjCClasses []string `yaml:"objc-classes"`
	ObjCIvars   []string `yaml:"objc-ivars"`
}

// Version content markers. A document carrying neither is simply not a TBD
// descriptor and yields no result.
const (
	markerV3     = "!tapi-tbd-v3"
	markerV4     = "!tapi-tbd-v4"
	markerPrefix = "--- !tapi-tbd"
)

// Parse extracts the flattened export set from one descriptor document.
// It returns nil both when no version marker matches and when a matched
// version fails to deserialize; neither condition is an error for the run.
func Parse(content string) *Info {
	if strings.Contains(content, markerV3) || strings.HasPrefix(content, markerPrefix) {
		if info := decode(content); info != nil {
			return info
		}
	}

	if strings.Contains(content, markerV4) {
		if info := decode(content); info != nil {
			return info
		}
	}

	return nil
}

func decode(content string) *Info {
	// The tag line ("--- !tapi-tbd-v3") trips strict YAML decoders; the tag
	// carries no export data, so strip it before unmarshalling.
	var doc document
	if err := yaml.Unmarshal([]byte(stripTagLine(content)), &doc); err != nil {
		return nil
	}

	info := &Info{}
	for _, stanza := range doc.Exports {
		info.Symbols = append(info.Symbols, stanza.Symbols...)
		info.ObjCClasses = append(info.ObjCClasses, stanza.ObjCClasses...)
		info.ObjCIvars = append(info.ObjCIvars, stanza.ObjCIvars...)
	}

	return info
}

// Merge appends another descriptor's exports, preserving order and
// duplicates, for frameworks shipped as several stub files.
func (i *Info) Merge(other *Info) {
	if other == nil {
		return
	}
	i.Symbols = append(i.Symbols, other.Symbols...)
	i.ObjCClasses = append(i.ObjCClasses, other.ObjCClasses...)
	i.ObjCIvars = append(i.ObjCIvars, other.ObjCIvars...)
}

func stripTagLine(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--- !tapi-tbd") {
			lines = append(lines, "---")
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Symbol classification. Compiled symbol tables carry no kind tag, so this
// is a best-effort heuristic: the derived sets may overlap or miss, and
// callers must not treat them as a partition.

const (
	linkerDirectivePrefix = "$ld$"
	objcRuntimeInfix      = "_OBJC_"
)

// The platform function prefixes recognized alongside lowercase-initial names
var functionPrefixes = []string{"NS", "CF"}

// FunctionSymbols returns the subset of symbols that look like C functions:
// after stripping one leading underscore, the name starts with a known
// platform prefix or with a lowercase letter. Linker directives and
// runtime-internal symbols are excluded.
func (i *Info) FunctionSymbols() []string {
	var out []string
	for _, symbol := range i.Symbols {
		if isFunctionSymbol(symbol) {
			out = append(out, symbol)
		}
	}
	return out
}

// ConstantSymbols returns the subset of symbols that follow the kConstant
// naming convention. A k-prefixed name that also matches the platform
// function pattern with mixed case elsewhere is treated as a function.
func (i *Info) ConstantSymbols() []string {
	var out []string
	for _, symbol := range i.Symbols {
		if isConstantSymbol(symbol) {
			out = append(out, symbol)
		}
	}
	return out
}

func excluded(symbol string) bool {
	return strings.HasPrefix(symbol, linkerDirectivePrefix) ||
		strings.Contains(symbol, objcRuntimeInfix)
}

// StripSymbol removes the single leading underscore the linker prepends to
// C-level names. Only one is removed; double-underscore names keep one.
func StripSymbol(symbol string) string {
	return strings.TrimPrefix(symbol, "_")
}

func isFunctionSymbol(symbol string) bool {
	if excluded(symbol) {
		return false
	}

	stripped := StripSymbol(symbol)
	if stripped == "" {
		return false
	}

	for _, prefix := range functionPrefixes {
		if strings.HasPrefix(stripped, prefix) {
			return true
		}
	}

	return stripped[0] >= 'a' && stripped[0] <= 'z'
}

func isConstantSymbol(symbol string) bool {
	if excluded(symbol) {
		return false
	}

	stripped := StripSymbol(symbol)
	if len(stripped) < 2 || stripped[0] != 'k' {
		return false
	}
	if stripped[1] < 'A' || stripped[1] > 'Z' {
		return false
	}

	// kNS/kCF names with mixed case read as prefixed functions, not
	// constants; the remainder being all-caps keeps them constants.
	rest := stripped[1:]
	for _, prefix := range functionPrefixes {
		if strings.HasPrefix(rest, prefix) && hasLower(rest) {
			return false
		}
	}

	return true
}

func hasLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}
