package value

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurutech/dicey-go/errdefs"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	raw, err := Marshal(v)
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)
	return out
}

func TestRoundTripScalars(t *testing.T) {
	tests := []Value{
		Unit{},
		Bool(true),
		Bool(false),
		Byte(0xfe),
		Float(3.5),
		Int16(-12),
		Int32(1 << 20),
		Int64(-(1 << 40)),
		UInt16(65535),
		UInt32(1 << 31),
		UInt64(1 << 60),
		Str("hello"),
		Str(""),
		Path("/dicey/test/echo"),
		Bytes{1, 2, 3},
		Selector{Trait: "sval.Sval", Elem: "Value"},
		UUID(uuid.MustParse("4fb11ec2-7fcc-4a43-8882-1a1d77a2a70e")),
		ErrorMessage{Code: -9},
		ErrorMessage{Code: -4, Message: "invalid data"},
	}
	for _, v := range tests {
		t.Run(v.Kind().String()+"/"+v.String(), func(t *testing.T) {
			assert.Equal(t, v, roundTrip(t, v))
		})
	}
}

func TestRoundTripCompound(t *testing.T) {
	v := Tuple{
		Str("trait"),
		Array{Elem: TypePair, Items: []Value{
			Pair{First: Str("Echo"), Second: Tuple{Byte(1), Str("u -> u")}},
			Pair{First: Str("Value"), Second: Tuple{Byte(2), Str("s"), Bool(true)}},
		}},
	}
	assert.Equal(t, v, roundTrip(t, v))
}

func TestRoundTripEmptyArray(t *testing.T) {
	v := Array{Elem: TypeStr, Items: []Value{}}
	out := roundTrip(t, v)

	arr, err := AsArray(out)
	require.NoError(t, err)
	assert.Equal(t, TypeStr, arr.Elem)
	assert.Empty(t, arr.Items)
}

func TestMarshalHeterogeneousArray(t *testing.T) {
	_, err := Marshal(Array{Elem: TypeStr, Items: []Value{Str("ok"), Int32(3)}})
	assert.True(t, errors.Is(err, errdefs.ErrValueTypeMismatch))
}

func TestMarshalEmbeddedNUL(t *testing.T) {
	_, err := Marshal(Str("a\x00b"))
	assert.True(t, errors.Is(err, errdefs.ErrInvalidData))

	_, err = Marshal(Path("/a\x00b"))
	assert.True(t, errors.Is(err, errdefs.ErrMalformedPath))
}

func TestUnmarshalTruncated(t *testing.T) {
	raw, err := Marshal(Tuple{Str("abc"), Int64(-1)})
	require.NoError(t, err)

	for n := 1; n < len(raw); n++ {
		_, err := Unmarshal(raw[:n])
		assert.Error(t, err, "prefix of %d bytes should not parse", n)
	}
}

func TestUnmarshalTrailingGarbage(t *testing.T) {
	raw, err := Marshal(Bool(true))
	require.NoError(t, err)

	_, err = Unmarshal(append(raw, 0xff))
	assert.True(t, errors.Is(err, errdefs.ErrBadMessage))
}

func TestUnmarshalUnknownTag(t *testing.T) {
	_, err := Unmarshal([]byte{0x7f})
	assert.True(t, errors.Is(err, errdefs.ErrBadMessage))
}

func TestUnmarshalUnterminatedString(t *testing.T) {
	_, err := Unmarshal([]byte{byte(TypeStr), 'a', 'b', 'c'})
	assert.True(t, errors.Is(err, errdefs.ErrBadMessage))
}

func TestBytesDecodeDoesNotAliasInput(t *testing.T) {
	raw, err := Marshal(Bytes{1, 2, 3})
	require.NoError(t, err)

	out, err := Unmarshal(raw)
	require.NoError(t, err)

	raw[len(raw)-1] = 0xaa
	b, err := AsBytes(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}
