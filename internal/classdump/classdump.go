// Package classdump parses class-dump introspection output into class,
// method and property records.
package classdump

import "strings"

type Class struct {
	Name       string
	Superclass string
	Methods    []Method
	Properties []Property
}

// Method pairs a raw selector with its raw type encoding, exactly as found
// in the dump. Decoding the encoding is the generator's concern.
type Method struct {
	Selector string
	Encoding string
}

type Property struct {
	Name       string
	Attributes string
}

// Line markers of the dump grammar. Anything that matches none of them is
// ignored rather than treated as an error.
const (
	interfaceOpen    = "@interface "
	interfaceClose   = "@end"
	superclassMarker = "Superclass: "
	methodsHeader    = "Methods ("
	propertiesHeader = "Properties ("
	methodMarker     = "- "
	propertyMarker   = "@property "
	encodingOpen     = " ["
)

// Parse runs the single-pass line state machine over one dump document.
// A record opens at "@interface" and is flushed at the next "@interface"
// or at end of input; "@end" only closes the method/property sections.
func Parse(content string) []Class {
	var classes []Class
	var current *Class
	inMethods := false
	inProperties := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, interfaceOpen):
			if current != nil {
				classes = append(classes, *current)
			}
			current = &Class{Name: strings.TrimSpace(strings.TrimPrefix(line, interfaceOpen))}
			inMethods = false
			inProperties = false

		case strings.HasPrefix(line, superclassMarker):
			if current != nil {
				current.Superclass = strings.TrimPrefix(line, superclassMarker)
			}

		case strings.HasPrefix(line, methodsHeader):
			inMethods = true
			inProperties = false

		case strings.HasPrefix(line, propertiesHeader):
			inMethods = false
			inProperties = true

		case line == interfaceClose:
			inMethods = false
			inProperties = false

		case inMethods && strings.HasPrefix(line, methodMarker):
			if current == nil {
				continue
			}
			if method, ok := splitMethodLine(line); ok {
				current.Methods = append(current.Methods, method)
			}

		case inProperties && strings.HasPrefix(line, propertyMarker):
			if current == nil {
				continue
			}
			if property, ok := splitPropertyLine(line); ok {
				current.Properties = append(current.Properties, property)
			}
		}
	}

	if current != nil {
		classes = append(classes, *current)
	}

	return classes
}

// splitMethodLine splits `- selector [encoding]` on the first " [". A line
// without both parts is malformed and dropped.
func splitMethodLine(line string) (Method, bool) {
	parts := strings.SplitN(line, encodingOpen, 2)
	if len(parts) != 2 {
		return Method{}, false
	}

	selector := strings.TrimSpace(strings.TrimPrefix(parts[0], methodMarker))
	encoding := strings.TrimSpace(strings.TrimSuffix(parts[1], "]"))
	if selector == "" {
		return Method{}, false
	}

	return Method{Selector: selector, Encoding: encoding}, true
}

// splitPropertyLine splits `@property name [attributes]` the same way
// method lines are split.
func splitPropertyLine(line string) (Property, bool) {
	rest := strings.TrimPrefix(line, propertyMarker)
	parts := strings.SplitN(rest, encodingOpen, 2)
	if len(parts) != 2 {
		return Property{}, false
	}

	name := strings.TrimSpace(parts[0])
	attributes := strings.TrimSpace(strings.TrimSuffix(parts[1], "]"))
	if name == "" {
		return Property{}, false
	}

	return Property{Name: name, Attributes: attributes}, true
}
