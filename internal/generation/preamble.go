package generation

import (
	"bytes"
	"text/template"

	"github.com/cockroachdb/errors"

	"objcbind/internal/sigdb"
)

// The C functions declared directly in the runtime support file. Everything
// else from the signature database is emitted only when a stub descriptor
// actually exports it.
var coreFunctionNames = []string{
	"NSLog",
	"NSClassFromString",
	"NSSelectorFromString",
	"NSStringFromClass",
	"NSStringFromSelector",
}

// Struct types the runtime support file defines. Aggregates outside this
// set that show up in method signatures get opaque placeholder declarations
// in the bindings file.
var preambleStructs = map[string]bool{
	"NSRange":                true,
	"CGPoint":                true,
	"CGSize":                 true,
	"CGRect":                 true,
	"NSZone":                 true,
	"NSDecimal":              true,
	"NSFastEnumerationState": true,
}

const runtimeTemplate = `// Code generated by objcbind. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/ebitengine/purego"
)

// Core Objective-C runtime handles.
type (
	ID    uintptr
	Class uintptr
	SEL   uintptr
)

// Foundation scalar aliases.
type (
	NSInteger      int
	NSUInteger     uint
	CGFloat        float64
	NSTimeInterval float64
)

type NSRange struct {
	Location NSUInteger
	Length   NSUInteger
}

type CGPoint struct {
	X CGFloat
	Y CGFloat
}

type CGSize struct {
	Width  CGFloat
	Height CGFloat
}

type CGRect struct {
	Origin CGPoint
	Size   CGSize
}

// NSZone is opaque and only ever used behind a pointer.
type NSZone struct {
	_ [0]byte
}

type NSDecimal struct {
	_ [20]byte
}

type NSFastEnumerationState struct {
	State        uint64
	ItemsPtr     *ID
	MutationsPtr *uint64
	Extra        [5]uint64
}

var (
	objcLib      uintptr
	frameworkLib uintptr

	objcMsgSend      uintptr
	objcMsgSendFpret uintptr
	objcMsgSendStret uintptr

	objcGetClass    func(name string) Class
	selRegisterName func(name string) SEL

	registerHooks []func(lib uintptr)
)

// Hand-declared {{.Framework}} C functions.
{{range .Core}}{{.Decl}}
{{end}}
// Load opens the Objective-C runtime and {{.Framework}}, resolves the
// dispatch entry points and registers every generated declaration. Call it
// once before touching any binding.
func Load() error {
	var err error
	objcLib, err = purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	frameworkLib, err = purego.Dlopen("{{.FrameworkPath}}", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}

	objcMsgSend, err = purego.Dlsym(objcLib, "objc_msgSend")
	if err != nil {
		return err
	}
	// The fpret/stret entry points are absent on arm64; ordinary dispatch
	// covers them there.
	objcMsgSendFpret = dlsymOr(objcLib, "objc_msgSend_fpret", objcMsgSend)
	objcMsgSendStret = dlsymOr(objcLib, "objc_msgSend_stret", objcMsgSend)

	purego.RegisterLibFunc(&objcGetClass, objcLib, "objc_getClass")
	purego.RegisterLibFunc(&selRegisterName, objcLib, "sel_registerName")

{{range .Core}}	{{.Register}}
{{end}}
	for _, hook := range registerHooks {
		hook(frameworkLib)
	}

	return nil
}

// GetClass resolves a live class object by its runtime name.
func GetClass(name string) Class {
	return objcGetClass(name)
}

// Selector interns a selector name with the runtime.
func Selector(name string) SEL {
	return selRegisterName(name)
}

func dlsymOr(lib uintptr, name string, fallback uintptr) uintptr {
	addr, err := purego.Dlsym(lib, name)
	if err != nil || addr == 0 {
		return fallback
	}
	return addr
}

func mustDlsym(lib uintptr, name string) uintptr {
	addr, err := purego.Dlsym(lib, name)
	if err != nil {
		panic(err)
	}
	return addr
}
`

type coreFunction struct {
	Decl     string
	Register string
}

type preambleData struct {
	Package       string
	Framework     string
	FrameworkPath string
	Core          []coreFunction
}

func renderPreamble(packageName, framework string) (string, error) {
	t, err := template.New("runtime").Parse(runtimeTemplate)
	if err != nil {
		return "", errors.Wrap(err, "parsing runtime template")
	}

	var core []coreFunction
	for _, name := range coreFunctionNames {
		sig, found := sigdb.Lookup(name)
		if !found {
			return "", errors.Newf("core function %s missing from signature database", name)
		}
		core = append(core, coreFunction{
			Decl:     sig.GoDecl(),
			Register: sig.RegisterCall("frameworkLib"),
		})
	}

	data := preambleData{
		Package:       packageName,
		Framework:     framework,
		FrameworkPath: "/System/Library/Frameworks/" + framework + ".framework/" + framework,
		Core:          core,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "rendering runtime support file")
	}

	return buf.String(), nil
}
