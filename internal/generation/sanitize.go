package generation

import "strings"

// The Go keywords a sanitized selector must not collide with
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
}

var classNameReplacer = strings.NewReplacer(
	".", "_",
	"-", "_",
	" ", "_",
	"+", "Plus",
	"$", "Dollar",
	"@", "At",
)

// SanitizeClassName maps a runtime class name onto a Go identifier. The
// caller must still reject empty or digit-leading results.
func SanitizeClassName(name string) string {
	return classNameReplacer.Replace(name)
}

var selectorReplacer = strings.NewReplacer(
	":", "_",
	"-", "_",
	".", "_",
	"+", "plus_",
	"$", "dollar_",
)

// SanitizeSelector maps a selector onto a Go method name: separator
// characters collapse to underscores, a leading digit gains an underscore
// prefix and a keyword collision gains an underscore suffix.
func SanitizeSelector(selector string) string {
	result := strings.Trim(selectorReplacer.Replace(selector), "_")
	if result == "" {
		return ""
	}

	if result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}

	if goKeywords[result] {
		result += "_"
	}

	return result
}

// DispatchSelector reconstructs the runtime selector string from the raw
// method name by reattaching a colon to every colon-delimited segment.
func DispatchSelector(selector string) string {
	if !strings.Contains(selector, ":") {
		return selector
	}

	var b strings.Builder
	for _, part := range strings.Split(selector, ":") {
		if part == "" {
			continue
		}
		b.WriteString(part)
		b.WriteByte(':')
	}

	if b.Len() == 0 {
		return selector
	}
	return b.String()
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if name[0] >= '0' && name[0] <= '9' {
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
