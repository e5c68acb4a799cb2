package sigdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	sig, found := Lookup("NSClassFromString")
	require.True(t, found)
	assert.Equal(t, "Class", sig.ReturnType)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, "aClassName", sig.Params[0].Name)

	_, found = Lookup("NotARealFunction")
	assert.False(t, found)
}

func TestFoundationOrderIsStable(t *testing.T) {
	first := Foundation()
	second := Foundation()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
	assert.Equal(t, "NSLog", first[0].Name)
}

func TestGoDecl(t *testing.T) {
	sig, _ := Lookup("NSClassFromString")
	assert.Equal(t, "var NSClassFromString func(aClassName ID) Class", sig.GoDecl())

	sig, _ = Lookup("NSPageSize")
	assert.Equal(t, "var NSPageSize func() NSUInteger", sig.GoDecl())

	sig, _ = Lookup("NSLogv")
	assert.Equal(t, "var NSLogv func(format ID, args unsafe.Pointer)", sig.GoDecl())
}

func TestGoDeclVariadicNote(t *testing.T) {
	sig, _ := Lookup("NSLog")
	assert.Equal(t, "var NSLog func(format ID) // variadic tail not bindable", sig.GoDecl())
}

func TestRegisterCall(t *testing.T) {
	sig, _ := Lookup("NSStringFromClass")
	assert.Equal(t,
		`purego.RegisterLibFunc(&NSStringFromClass, foundationLib, "NSStringFromClass")`,
		sig.RegisterCall("foundationLib"))
}
