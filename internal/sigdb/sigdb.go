// Package sigdb holds the hand-maintained signature database for well-known
// Foundation C functions. Stub descriptors name exported symbols but carry no
// type information, so typed declarations for C functions can only come from
// a curated table like this one.
package sigdb

import "strings"

type Param struct {
	Name string
	Type string
}

// Signature describes one C function with Go-rendered types. Variadic tails
// cannot be forwarded through the generated dispatch layer, so IsVariadic
// only controls a diagnostic note on the declaration.
type Signature struct {
	Name       string
	ReturnType string
	Params     []Param
	IsVariadic bool
}

// The Foundation signature table, in emission order. Extend by hand when a
// framework exports a C function worth binding.
var foundation = []Signature{
	{Name: "NSLog", ReturnType: "", Params: []Param{{"format", "ID"}}, IsVariadic: true},
	{Name: "NSLogv", ReturnType: "", Params: []Param{{"format", "ID"}, {"args", "unsafe.Pointer"}}},
	{Name: "NSClassFromString", ReturnType: "Class", Params: []Param{{"aClassName", "ID"}}},
	{Name: "NSSelectorFromString", ReturnType: "SEL", Params: []Param{{"aSelectorName", "ID"}}},
	{Name: "NSStringFromClass", ReturnType: "ID", Params: []Param{{"aClass", "Class"}}},
	{Name: "NSStringFromSelector", ReturnType: "ID", Params: []Param{{"aSelector", "SEL"}}},
	{Name: "NSStringFromRange", ReturnType: "ID", Params: []Param{{"aRange", "NSRange"}}},
	{Name: "NSRangeFromString", ReturnType: "NSRange", Params: []Param{{"aString", "ID"}}},
	{Name: "NSDefaultMallocZone", ReturnType: "unsafe.Pointer"},
	{Name: "NSPageSize", ReturnType: "NSUInteger"},
	{Name: "NSLogPageSize", ReturnType: "NSUInteger"},
	{Name: "NSRoundUpToMultipleOfPageSize", ReturnType: "NSUInteger", Params: []Param{{"bytes", "NSUInteger"}}},
	{Name: "NSRoundDownToMultipleOfPageSize", ReturnType: "NSUInteger", Params: []Param{{"bytes", "NSUInteger"}}},
	{Name: "NSUserName", ReturnType: "ID"},
	{Name: "NSFullUserName", ReturnType: "ID"},
	{Name: "NSHomeDirectory", ReturnType: "ID"},
	{Name: "NSHomeDirectoryForUser", ReturnType: "ID", Params: []Param{{"userName", "ID"}}},
	{Name: "NSTemporaryDirectory", ReturnType: "ID"},
	{Name: "NSSearchPathForDirectoriesInDomains", ReturnType: "ID", Params: []Param{
		{"directory", "NSUInteger"}, {"domainMask", "NSUInteger"}, {"expandTilde", "bool"},
	}},
	{Name: "NSGetSizeAndAlignment", ReturnType: "*int8", Params: []Param{
		{"typePtr", "*int8"}, {"sizep", "*NSUInteger"}, {"alignp", "*NSUInteger"},
	}},
}

var byName = func() map[string]Signature {
	m := make(map[string]Signature, len(foundation))
	for _, sig := range foundation {
		m[sig.Name] = sig
	}
	return m
}()

// Foundation returns the signature table in its authored order.
func Foundation() []Signature {
	return foundation
}

// Lookup finds a signature by bare (underscore-stripped) symbol name.
func Lookup(name string) (Signature, bool) {
	sig, found := byName[name]
	return sig, found
}

// GoDecl renders the function-variable declaration the generated support
// file carries for this signature.
func (s Signature) GoDecl() string {
	var b strings.Builder
	b.WriteString("var ")
	b.WriteString(s.Name)
	b.WriteString(" func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(p.Type)
	}
	b.WriteString(")")
	if s.ReturnType != "" {
		b.WriteString(" ")
		b.WriteString(s.ReturnType)
	}
	if s.IsVariadic {
		b.WriteString(" // variadic tail not bindable")
	}
	return b.String()
}

// RegisterCall renders the purego registration statement for the
// declaration, resolving the underscored symbol from the given handle
// variable.
func (s Signature) RegisterCall(handleVar string) string {
	return "purego.RegisterLibFunc(&" + s.Name + ", " + handleVar + ", \"" + s.Name + "\")"
}
