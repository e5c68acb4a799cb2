// Package encoding decodes Objective-C runtime type encoding strings.
package encoding

import "strings"

type Kind int

const (
	Void Kind = iota
	Bool
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	ID
	Class
	SEL
	CharPtr
	Pointer
	Struct
	Unknown
)

// Type is one decoded node of the encoding grammar. Elem is set for Pointer,
// Name holds the struct tag for Struct and the raw fragment for Unknown.
type Type struct {
	Kind Kind
	Elem *Type
	Name string
}

// The map of single-character encoding codes to type kinds
var simpleCodes = map[byte]Kind{
	'v': Void,
	'B': Bool,
	'c': Char,
	'C': UChar,
	's': Short,
	'S': UShort,
	'i': Int,
	'I': UInt,
	'l': Long,
	'L': ULong,
	'q': LongLong,
	'Q': ULongLong,
	'f': Float,
	'd': Double,
	'@': ID,
	'#': Class,
	':': SEL,
	'*': CharPtr,
}

// Unterminated struct encodings are captured as an Unknown of at most this
// many characters so a corrupt input cannot make the parser scan unbounded.
const unresolvedCap = 10

// DecodeOne decodes a single type at the start of s and reports how many
// bytes it consumed. It never fails: anything unrecognized becomes Unknown
// with one byte consumed.
func DecodeOne(s string) (Type, int) {
	if s == "" {
		return Type{Kind: Unknown, Name: "empty"}, 0
	}

	if kind, ok := simpleCodes[s[0]]; ok {
		return Type{Kind: kind}, 1
	}

	switch s[0] {
	case '^':
		inner, consumed := DecodeOne(s[1:])
		return Type{Kind: Pointer, Elem: &inner}, consumed + 1

	case '{':
		end := matchingBrace(s)
		if end < 0 {
			capped := s
			if len(capped) > unresolvedCap {
				capped = capped[:unresolvedCap]
			}
			return Type{Kind: Unknown, Name: capped}, 1
		}
		interior := s[1:end]
		name := interior
		if eq := strings.IndexByte(interior, '='); eq >= 0 {
			name = interior[:eq]
		}
		return Type{Kind: Struct, Name: name}, end + 1
	}

	return Type{Kind: Unknown, Name: s[:1]}, 1
}

// Signature is an ordered method encoding: the return type followed by the
// argument types. By runtime convention Args[0] is the receiver (@) and
// Args[1] is the selector (:).
type Signature struct {
	Return Type
	Args   []Type
}

// DecodeSignature decodes a full method encoding such as "v16@0:8". The
// decimal runs are stack offsets, not types, and are skipped. Returns nil
// when nothing could be decoded.
func DecodeSignature(raw string) *Signature {
	clean := strings.Trim(strings.TrimSpace(raw), "[]")
	if clean == "" {
		return nil
	}

	var types []Type
	pos := 0
	for pos < len(clean) {
		if isDigit(clean[pos]) {
			for pos < len(clean) && isDigit(clean[pos]) {
				pos++
			}
			continue
		}

		decoded, consumed := DecodeOne(clean[pos:])
		types = append(types, decoded)
		if consumed == 0 {
			break
		}
		pos += consumed
	}

	if len(types) == 0 {
		return nil
	}

	return &Signature{Return: types[0], Args: types[1:]}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// matchingBrace returns the index of the close brace balancing the open
// brace at s[0], or -1 when the aggregate never closes. Field lists nest
// ({CGRect={CGPoint=dd}{CGSize=dd}}), so the first '}' is not enough.
func matchingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// The map of primitive kinds to the Go types the generated code uses
var goTypes = map[Kind]string{
	Void:      "struct{}",
	Bool:      "bool",
	Char:      "int8",
	UChar:     "uint8",
	Short:     "int16",
	UShort:    "uint16",
	Int:       "int32",
	UInt:      "uint32",
	Long:      "NSInteger",
	ULong:     "NSUInteger",
	LongLong:  "int64",
	ULongLong: "uint64",
	Float:     "float32",
	Double:    "float64",
	ID:        "ID",
	Class:     "Class",
	SEL:       "SEL",
	CharPtr:   "*int8",
}

// GoType renders the node as a Go type token. Every node renders to
// something syntactically valid: unresolved fragments and unnamed or
// unrenderable struct tags come out as unsafe.Pointer rather than as empty
// or broken text.
func (t Type) GoType() string {
	switch t.Kind {
	case Pointer:
		if t.Elem == nil || t.Elem.Kind == Void || t.Elem.Kind == Unknown {
			return "unsafe.Pointer"
		}
		return "*" + t.Elem.GoType()

	case Struct:
		if !validStructTag(t.Name) {
			return "unsafe.Pointer"
		}
		return t.Name

	case Unknown:
		return "unsafe.Pointer"
	}

	return goTypes[t.Kind]
}

// IsFloat reports whether the type routes through the float-return dispatch
// entry point.
func (t Type) IsFloat() bool {
	return t.Kind == Float || t.Kind == Double
}

func validStructTag(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
