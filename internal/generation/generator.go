package generation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"objcbind/internal/classdump"
	"objcbind/internal/encoding"
	"objcbind/internal/sigdb"
	"objcbind/internal/tbd"
)

const puregoPath = "github.com/ebitengine/purego"

// Generator accumulates parsed class records and stub exports for one run
// and renders them into Go source files. All mutable state (the per-class
// dedup counters, the placeholder aggregate list) lives on one Generator
// and is discarded with it; two runs over the same input produce
// byte-identical output.
type Generator struct {
	PackageName string
	Framework   string
	Classes     []classdump.Class
	Exports     *tbd.Info

	placeholders     []string
	placeholderSeen  map[string]bool
	dumpedClassNames map[string]bool
}

func NewGenerator(packageName, framework string) *Generator {
	return &Generator{
		PackageName:      packageName,
		Framework:        framework,
		placeholderSeen:  map[string]bool{},
		dumpedClassNames: map[string]bool{},
	}
}

// RegisterClass queues one dump record for generation. Input order is
// preserved in the output.
func (g *Generator) RegisterClass(class classdump.Class) {
	g.Classes = append(g.Classes, class)
	g.dumpedClassNames[class.Name] = true
}

// RegisterExports attaches the flattened stub-descriptor exports. Classes
// the dump already covers are not stubbed again.
func (g *Generator) RegisterExports(info *tbd.Info) {
	g.Exports = info
}

// Generate renders all registered input into output files keyed by file
// name: runtime.go (fixed support preamble), bindings.go (one unit per
// class), and exports.go when stub exports were registered.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	preamble, err := renderPreamble(g.PackageName, g.Framework)
	if err != nil {
		return nil, err
	}
	files["runtime.go"] = preamble

	bindings, err := g.generateBindings()
	if err != nil {
		return nil, errors.Wrap(err, "rendering bindings")
	}
	files["bindings.go"] = bindings

	if g.Exports != nil {
		files["exports.go"] = g.generateExports()
	}

	return files, nil
}

func (g *Generator) generateBindings() (string, error) {
	file := jen.NewFile(g.PackageName)
	file.HeaderComment("Code generated by objcbind. DO NOT EDIT.")

	for _, class := range g.Classes {
		g.generateClass(file, class, true)
	}

	if g.Exports != nil {
		for _, name := range g.Exports.ObjCClasses {
			if g.dumpedClassNames[name] {
				continue
			}
			g.generateClass(file, classdump.Class{Name: name}, false)
		}
	}

	g.generatePlaceholders(file)

	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateClass emits one class unit: the handle type, the class-object
// accessor, and a wrapper per method that survives signature decoding.
// full is false for descriptor-only stub classes, which get no methods.
func (g *Generator) generateClass(file *jen.File, class classdump.Class, full bool) {
	goName := SanitizeClassName(class.Name)
	if !validIdentifier(goName) {
		// Unrenderable class name; nothing could reference the unit anyway.
		return
	}

	header := fmt.Sprintf("Objective-C class %s", class.Name)
	if class.Superclass != "" {
		header += fmt.Sprintf(" : %s", class.Superclass)
	}
	if !full {
		header += " (stub descriptor export, no dump record)"
	}
	file.Comment(header)
	file.Type().Id(goName).Struct(jen.Id("ID"))

	// The accessor looks the class up by its original runtime name, not
	// the sanitized one.
	file.Func().Id(goName+"Class").Params().Id("Class").Block(
		jen.Return(jen.Id("GetClass").Call(jen.Lit(class.Name))),
	)

	if !full {
		return
	}

	dedup := map[string]int{}
	for _, method := range class.Methods {
		methodName := SanitizeSelector(method.Selector)
		if !validIdentifier(methodName) {
			file.Comment(fmt.Sprintf("skipped %s: selector does not sanitize to an identifier", method.Selector))
			continue
		}

		count := dedup[methodName]
		dedup[methodName] = count + 1
		if count > 0 {
			methodName = fmt.Sprintf("%s_%d", methodName, count)
		}

		g.generateMethod(file, goName, method, methodName)
	}

	if class.Name == "NSString" {
		g.generateStringConvenience(file, goName)
	}
}

func (g *Generator) generateMethod(file *jen.File, goName string, method classdump.Method, methodName string) {
	sig := encoding.DecodeSignature(method.Encoding)
	if sig == nil {
		file.Comment(fmt.Sprintf("skipped %s: undecodable encoding %q", method.Selector, method.Encoding))
		return
	}
	if len(sig.Args) < 2 {
		file.Comment(fmt.Sprintf("skipped %s: encoding %q lacks receiver and selector slots", method.Selector, method.Encoding))
		return
	}

	g.notePlaceholder(sig.Return)
	for _, arg := range sig.Args {
		g.notePlaceholder(arg)
	}

	params := sig.Args[2:]
	returnsValue := sig.Return.Kind != encoding.Void
	selector := DispatchSelector(method.Selector)

	file.Comment(fmt.Sprintf("%s [%s]", method.Selector, method.Encoding))
	fn := file.Func().
		Params(jen.Id("o").Id(goName)).
		Id(methodName).
		ParamsFunc(func(pg *jen.Group) {
			for i, param := range params {
				pg.Id(fmt.Sprintf("arg%d", i)).Add(typeExpr(param))
			}
		})
	if returnsValue {
		fn.Add(typeExpr(sig.Return))
	}

	fn.BlockFunc(func(bg *jen.Group) {
		fnType := jen.Func().ParamsFunc(func(tg *jen.Group) {
			tg.Id("ID")
			tg.Id("SEL")
			for _, param := range params {
				tg.Add(typeExpr(param))
			}
		})
		if returnsValue {
			fnType.Add(typeExpr(sig.Return))
		}

		bg.Var().Id("fn").Add(fnType)
		bg.Qual(puregoPath, "RegisterFunc").Call(
			jen.Op("&").Id("fn"),
			jen.Id(dispatchFor(sig.Return)),
		)

		call := jen.Id("fn").CallFunc(func(cg *jen.Group) {
			cg.Id("o").Dot("ID")
			cg.Id("Selector").Call(jen.Lit(selector))
			for i := range params {
				cg.Id(fmt.Sprintf("arg%d", i))
			}
		})
		if returnsValue {
			bg.Return(call)
		} else {
			bg.Add(call)
		}
	})
}

// dispatchFor picks the msgSend entry point from the return type's calling
// convention: aggregate returns go through stret, floating-point returns
// through fpret, everything else through plain objc_msgSend.
func dispatchFor(ret encoding.Type) string {
	switch {
	case ret.Kind == encoding.Struct:
		return "objcMsgSendStret"
	case ret.IsFloat():
		return "objcMsgSendFpret"
	default:
		return "objcMsgSend"
	}
}

// typeExpr renders a decoded type as a Go type expression. Unresolved
// fragments and unnameable aggregates come out as unsafe.Pointer so the
// emitted source always stays valid.
func typeExpr(t encoding.Type) jen.Code {
	switch t.Kind {
	case encoding.Pointer:
		if t.Elem == nil || t.Elem.Kind == encoding.Void || t.Elem.Kind == encoding.Unknown {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Op("*").Add(typeExpr(*t.Elem))

	case encoding.Struct:
		if !validIdentifier(t.Name) {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Id(t.Name)

	case encoding.Unknown:
		return jen.Qual("unsafe", "Pointer")

	case encoding.Void:
		return jen.Struct()

	case encoding.CharPtr:
		return jen.Op("*").Id("int8")
	}

	return jen.Id(t.GoType())
}

// notePlaceholder records aggregate tags the support file does not define
// so an opaque declaration can be emitted once per tag.
func (g *Generator) notePlaceholder(t encoding.Type) {
	switch t.Kind {
	case encoding.Pointer:
		if t.Elem != nil {
			g.notePlaceholder(*t.Elem)
		}
	case encoding.Struct:
		if !validIdentifier(t.Name) || preambleStructs[t.Name] || g.placeholderSeen[t.Name] {
			return
		}
		g.placeholderSeen[t.Name] = true
		g.placeholders = append(g.placeholders, t.Name)
	}
}

func (g *Generator) generatePlaceholders(file *jen.File) {
	for _, name := range g.placeholders {
		file.Comment(fmt.Sprintf("%s layout is not known to the generator; usable behind a pointer only.", name))
		file.Type().Id(name).Struct(jen.Id("_").Index(jen.Lit(0)).Byte())
	}
}

// generateStringConvenience emits the two hand-authored NSString helpers.
// They are not derived from the dump; they wire the well-known
// stringWithUTF8String: and UTF8String selectors.
func (g *Generator) generateStringConvenience(file *jen.File, goName string) {
	file.Comment("NSStringFromString makes an NSString out of a Go string.")
	file.Func().Id(goName + "FromString").Params(jen.Id("s").String()).Id(goName).Block(
		jen.Var().Id("fn").Func().Params(jen.Id("Class"), jen.Id("SEL"), jen.String()).Id("ID"),
		jen.Qual(puregoPath, "RegisterFunc").Call(jen.Op("&").Id("fn"), jen.Id("objcMsgSend")),
		jen.Return(jen.Id(goName).Values(
			jen.Id("fn").Call(
				jen.Id(goName+"Class").Call(),
				jen.Id("Selector").Call(jen.Lit("stringWithUTF8String:")),
				jen.Id("s"),
			),
		)),
	)

	file.Comment("String returns the receiver's UTF-8 contents as a Go string.")
	file.Func().Params(jen.Id("o").Id(goName)).Id("String").Params().String().Block(
		jen.Var().Id("fn").Func().Params(jen.Id("ID"), jen.Id("SEL")).String(),
		jen.Qual(puregoPath, "RegisterFunc").Call(jen.Op("&").Id("fn"), jen.Id("objcMsgSend")),
		jen.Return(jen.Id("fn").Call(
			jen.Id("o").Dot("ID"),
			jen.Id("Selector").Call(jen.Lit("UTF8String")),
		)),
	)
}

// generateExports renders the stub-descriptor file: typed declarations for
// exported C functions the signature database knows, resolved data symbols
// for exported constants, and a note for everything left unbound.
func (g *Generator) generateExports() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by objcbind. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", g.PackageName)

	declared := g.exportFunctions()
	constants := g.exportConstants(declared)

	// purego is only referenced by function registrations; constants go
	// through mustDlsym from the support file.
	if len(declared) > 0 {
		needsUnsafe := false
		for _, sig := range declared {
			if strings.Contains(sig.GoDecl(), "unsafe.") {
				needsUnsafe = true
			}
		}

		fmt.Fprintf(&buf, "import (\n")
		if needsUnsafe {
			fmt.Fprintf(&buf, "\t\"unsafe\"\n\n")
		}
		fmt.Fprintf(&buf, "\t\"github.com/ebitengine/purego\"\n)\n\n")
	}

	if len(declared) > 0 {
		fmt.Fprintf(&buf, "// Exported C functions with known signatures.\n")
		for _, sig := range declared {
			fmt.Fprintf(&buf, "%s\n", sig.GoDecl())
		}
		fmt.Fprintf(&buf, "\n")
	}

	if len(constants) > 0 {
		fmt.Fprintf(&buf, "// Exported data symbols; dereference per the symbol's real type.\n")
		fmt.Fprintf(&buf, "var (\n")
		for _, name := range constants {
			fmt.Fprintf(&buf, "\t%s uintptr\n", name)
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	fmt.Fprintf(&buf, "func registerExports(lib uintptr) {\n")
	for _, sig := range declared {
		fmt.Fprintf(&buf, "\t%s\n", sig.RegisterCall("lib"))
	}
	for _, name := range constants {
		fmt.Fprintf(&buf, "\t%s = mustDlsym(lib, %q)\n", name, name)
	}
	fmt.Fprintf(&buf, "}\n\n")
	fmt.Fprintf(&buf, "func init() {\n\tregisterHooks = append(registerHooks, registerExports)\n}\n")

	if unbound := g.unboundFunctionSymbols(); len(unbound) > 0 {
		fmt.Fprintf(&buf, "\n// Exported functions without a known signature, left unbound:\n")
		for _, name := range unbound {
			fmt.Fprintf(&buf, "//   %s\n", name)
		}
	}

	return buf.String()
}

func (g *Generator) exportFunctions() []sigdb.Signature {
	core := map[string]bool{}
	for _, name := range coreFunctionNames {
		core[name] = true
	}

	var out []sigdb.Signature
	seen := map[string]bool{}
	for _, symbol := range g.Exports.FunctionSymbols() {
		name := tbd.StripSymbol(symbol)
		if seen[name] || core[name] {
			continue
		}
		if sig, found := sigdb.Lookup(name); found {
			seen[name] = true
			out = append(out, sig)
		}
	}
	return out
}

func (g *Generator) exportConstants(declared []sigdb.Signature) []string {
	asFunction := map[string]bool{}
	for _, sig := range declared {
		asFunction[sig.Name] = true
	}

	var out []string
	seen := map[string]bool{}
	for _, symbol := range g.Exports.ConstantSymbols() {
		name := tbd.StripSymbol(symbol)
		if seen[name] || asFunction[name] || !validIdentifier(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (g *Generator) unboundFunctionSymbols() []string {
	var out []string
	seen := map[string]bool{}
	for _, symbol := range g.Exports.FunctionSymbols() {
		name := tbd.StripSymbol(symbol)
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, found := sigdb.Lookup(name); !found {
			out = append(out, name)
		}
	}
	return out
}
