package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOneSimpleCodes(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"v", Void},
		{"B", Bool},
		{"c", Char},
		{"C", UChar},
		{"s", Short},
		{"S", UShort},
		{"i", Int},
		{"I", UInt},
		{"l", Long},
		{"L", ULong},
		{"q", LongLong},
		{"Q", ULongLong},
		{"f", Float},
		{"d", Double},
		{"@", ID},
		{"#", Class},
		{":", SEL},
		{"*", CharPtr},
	}

	for _, tc := range cases {
		decoded, consumed := DecodeOne(tc.in)
		assert.Equal(t, tc.kind, decoded.Kind, "code %q", tc.in)
		assert.Equal(t, 1, consumed, "code %q", tc.in)
	}
}

func TestDecodeOneEmpty(t *testing.T) {
	decoded, consumed := DecodeOne("")
	assert.Equal(t, Unknown, decoded.Kind)
	assert.Equal(t, "empty", decoded.Name)
	assert.Equal(t, 0, consumed)
}

func TestDecodeOneUnknownCode(t *testing.T) {
	decoded, consumed := DecodeOne("?abc")
	assert.Equal(t, Unknown, decoded.Kind)
	assert.Equal(t, "?", decoded.Name)
	assert.Equal(t, 1, consumed)
}

func TestDecodeOnePointer(t *testing.T) {
	decoded, consumed := DecodeOne("^v")
	require.Equal(t, Pointer, decoded.Kind)
	require.NotNil(t, decoded.Elem)
	assert.Equal(t, Void, decoded.Elem.Kind)
	assert.Equal(t, 2, consumed)

	decoded, consumed = DecodeOne("^^i")
	require.Equal(t, Pointer, decoded.Kind)
	require.Equal(t, Pointer, decoded.Elem.Kind)
	assert.Equal(t, Int, decoded.Elem.Elem.Kind)
	assert.Equal(t, 3, consumed)
}

func TestDecodeOneStruct(t *testing.T) {
	decoded, consumed := DecodeOne("{NSRange=QQ}")
	assert.Equal(t, Struct, decoded.Kind)
	assert.Equal(t, "NSRange", decoded.Name)
	assert.Equal(t, len("{NSRange=QQ}"), consumed)
}

func TestDecodeOneNestedStruct(t *testing.T) {
	// The scan must balance braces; stopping at the first '}' would leave
	// the tail of the field list to be decoded as spurious extra types.
	in := "{CGRect={CGPoint=dd}{CGSize=dd}}"
	decoded, consumed := DecodeOne(in)
	assert.Equal(t, Struct, decoded.Kind)
	assert.Equal(t, "CGRect", decoded.Name)
	assert.Equal(t, len(in), consumed)
}

func TestDecodeOneStructWithoutFieldList(t *testing.T) {
	decoded, consumed := DecodeOne("{NSZone}")
	assert.Equal(t, Struct, decoded.Kind)
	assert.Equal(t, "NSZone", decoded.Name)
	assert.Equal(t, 8, consumed)
}

func TestDecodeOneUnterminatedStruct(t *testing.T) {
	decoded, consumed := DecodeOne("{CGRect=CGPoint=dd")
	assert.Equal(t, Unknown, decoded.Kind)
	assert.Equal(t, "{CGRect=CG", decoded.Name)
	assert.Len(t, decoded.Name, unresolvedCap)
	assert.Equal(t, 1, consumed)

	// An inner close brace alone does not terminate the outer aggregate.
	decoded, consumed = DecodeOne("{CGRect={CGPoint=dd}")
	assert.Equal(t, Unknown, decoded.Kind)
	assert.Equal(t, 1, consumed)
}

func TestDecodeSignatureVoidMethod(t *testing.T) {
	// - release [v16@0:8]
	sig := DecodeSignature("v16@0:8")
	require.NotNil(t, sig)
	assert.Equal(t, Void, sig.Return.Kind)
	require.Len(t, sig.Args, 2)
	assert.Equal(t, ID, sig.Args[0].Kind)
	assert.Equal(t, SEL, sig.Args[1].Kind)
}

func TestDecodeSignatureWithParameter(t *testing.T) {
	// - isKindOfClass: [B24@0:8#16]
	sig := DecodeSignature("B24@0:8#16")
	require.NotNil(t, sig)
	assert.Equal(t, Bool, sig.Return.Kind)
	require.Len(t, sig.Args, 3)
	assert.Equal(t, Class, sig.Args[2].Kind)
}

func TestDecodeSignatureBracketed(t *testing.T) {
	sig := DecodeSignature(" [@24@0:8@16] ")
	require.NotNil(t, sig)
	assert.Equal(t, ID, sig.Return.Kind)
	assert.Len(t, sig.Args, 3)
}

func TestDecodeSignatureStructReturn(t *testing.T) {
	sig := DecodeSignature("{CGRect={CGPoint=dd}{CGSize=dd}}16@0:8")
	require.NotNil(t, sig)
	assert.Equal(t, Struct, sig.Return.Kind)
	assert.Equal(t, "CGRect", sig.Return.Name)
	assert.Len(t, sig.Args, 2)
}

func TestDecodeSignatureEmpty(t *testing.T) {
	assert.Nil(t, DecodeSignature(""))
	assert.Nil(t, DecodeSignature("  []  "))
	assert.Nil(t, DecodeSignature("16024"))
}

func TestGoTypeRendering(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{Type{Kind: Bool}, "bool"},
		{Type{Kind: Long}, "NSInteger"},
		{Type{Kind: ULong}, "NSUInteger"},
		{Type{Kind: ID}, "ID"},
		{Type{Kind: Class}, "Class"},
		{Type{Kind: SEL}, "SEL"},
		{Type{Kind: CharPtr}, "*int8"},
		{Type{Kind: Struct, Name: "NSRange"}, "NSRange"},
		{Type{Kind: Pointer, Elem: &Type{Kind: Int}}, "*int32"},
		{Type{Kind: Pointer, Elem: &Type{Kind: Void}}, "unsafe.Pointer"},
		{Type{Kind: Pointer, Elem: &Type{Kind: Struct, Name: "NSRange"}}, "*NSRange"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.typ.GoType())
	}
}

func TestGoTypeNeverEmpty(t *testing.T) {
	// Unresolved fragments and unnameable struct tags must still render as a
	// valid token.
	opaque := []Type{
		{Kind: Unknown, Name: "?"},
		{Kind: Unknown},
		{Kind: Struct, Name: ""},
		{Kind: Struct, Name: "?"},
		{Kind: Struct, Name: "9tag"},
		{Kind: Pointer},
	}

	for _, typ := range opaque {
		assert.Equal(t, "unsafe.Pointer", typ.GoType())
	}
}

func TestIsFloat(t *testing.T) {
	assert.True(t, Type{Kind: Float}.IsFloat())
	assert.True(t, Type{Kind: Double}.IsFloat())
	assert.False(t, Type{Kind: Int}.IsFloat())
	assert.False(t, Type{Kind: Struct, Name: "CGRect"}.IsFloat())
}
