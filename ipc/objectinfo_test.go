package ipc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/value"
)

func member(name string, kind ElementKind, sig string, extra ...value.Value) value.Value {
	desc := value.Tuple{value.Byte(byte(kind)), value.Str(sig)}
	desc = append(desc, extra...)
	return value.Pair{First: value.Str(name), Second: desc}
}

func trait(name string, members ...value.Value) value.Value {
	return value.Pair{
		First:  value.Str(name),
		Second: value.Array{Elem: value.TypePair, Items: members},
	}
}

func TestDecodeObjectInfo(t *testing.T) {
	payload := value.Array{Elem: value.TypePair, Items: []value.Value{
		trait("dicey.test.Echo",
			member("Echo", ElementOperation, "u -> u"),
		),
		trait("sval.Sval",
			member("Value", ElementProperty, "s", value.Bool(false)),
			member("Frozen", ElementProperty, "s", value.Bool(true)),
			member("Changed", ElementSignal, "s"),
		),
	}}

	info, err := DecodeObjectInfo("/obj", payload)
	require.NoError(t, err)

	assert.Equal(t, "/obj", info.Path)
	require.Len(t, info.Traits, 2)

	sval := info.Traits["sval.Sval"]
	assert.Equal(t, []string{"Frozen", "Value"}, sval.Properties())
	assert.Equal(t, []string{"Changed"}, sval.Signals())
	assert.Empty(t, sval.Operations())
	assert.True(t, sval["Frozen"].ReadOnly)
	assert.False(t, sval["Value"].ReadOnly)
	assert.Equal(t, "s", sval["Value"].Signature)

	echo := info.Traits["dicey.test.Echo"]
	assert.Equal(t, []string{"Echo"}, echo.Operations())
	assert.Equal(t, "u -> u", echo["Echo"].Signature)
}

func TestDecodeObjectInfoEmpty(t *testing.T) {
	info, err := DecodeObjectInfo("/bare", value.Array{Elem: value.TypePair})
	require.NoError(t, err)
	assert.Empty(t, info.Traits)
}

func TestDecodeObjectInfoRejects(t *testing.T) {
	cases := []struct {
		name    string
		payload value.Value
		want    error
	}{
		{
			name:    "not an array",
			payload: value.Str("nope"),
			want:    errdefs.ErrValueTypeMismatch,
		},
		{
			name: "member description of wrong arity",
			payload: value.Array{Elem: value.TypePair, Items: []value.Value{
				trait("a.B", value.Pair{First: value.Str("X"), Second: value.Tuple{value.Byte(0x01)}}),
			}},
			want: errdefs.ErrValueTypeMismatch,
		},
		{
			name: "unknown element kind",
			payload: value.Array{Elem: value.TypePair, Items: []value.Value{
				trait("a.B", member("X", ElementKind(0x7f), "s")),
			}},
			want: errdefs.ErrBadMessage,
		},
		{
			name: "signature not a string",
			payload: value.Array{Elem: value.TypePair, Items: []value.Value{
				trait("a.B", value.Pair{First: value.Str("X"), Second: value.Tuple{value.Byte(0x01), value.Int32(3)}}),
			}},
			want: errdefs.ErrValueTypeMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeObjectInfo("/obj", tc.payload)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestElementKindString(t *testing.T) {
	assert.Equal(t, "operation", ElementOperation.String())
	assert.Equal(t, "property", ElementProperty.String())
	assert.Equal(t, "signal", ElementSignal.String())
	assert.Equal(t, "invalid", ElementKind(0xff).String())
}
