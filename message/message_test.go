package message

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/value"
)

func dumpLoad(t *testing.T, p Packet) Packet {
	t.Helper()

	raw, err := p.Dump()
	require.NoError(t, err)

	out, err := Load(raw)
	require.NoError(t, err)
	return out
}

func TestHelloRoundTrip(t *testing.T) {
	h := &Hello{Seq: 1, Version: Version{Major: 1, Revision: 0}}
	assert.Equal(t, h, dumpLoad(t, h))
}

func TestByeRoundTrip(t *testing.T) {
	b := &Bye{Seq: 41, Reason: ReasonShutdown}
	assert.Equal(t, b, dumpLoad(t, b))

	b = &Bye{Seq: 43, Reason: ReasonError}
	assert.Equal(t, b, dumpLoad(t, b))
}

func TestMessageRoundTrip(t *testing.T) {
	tests := []*Message{
		{
			Op:       OpGet,
			Seq:      3,
			Path:     "/sval",
			Selector: value.Selector{Trait: "sval.Sval", Elem: "Value"},
		},
		{
			Op:       OpSet,
			Seq:      5,
			Path:     "/sval",
			Selector: value.Selector{Trait: "sval.Sval", Elem: "Value"},
			Value:    value.Str("hello there"),
		},
		{
			Op:       OpExec,
			Seq:      7,
			Path:     "/dicey/test/timer",
			Selector: value.Selector{Trait: "dicey.test.Timer", Elem: "Start"},
			Value:    value.Int32(5),
		},
		{
			Op:       OpEvent,
			Seq:      2,
			Path:     "/dicey/test/timer",
			Selector: value.Selector{Trait: "dicey.test.Timer", Elem: "TimerFired"},
			Value:    value.Unit{},
		},
		{
			Op:       OpResponse,
			Seq:      7,
			Path:     "/dicey/test/timer",
			Selector: value.Selector{Trait: "dicey.test.Timer", Elem: "Start"},
			Value:    value.ErrorMessage{Code: -9, Message: "too slow"},
		},
	}
	for _, msg := range tests {
		t.Run(msg.Op.String(), func(t *testing.T) {
			assert.Equal(t, msg, dumpLoad(t, msg))
		})
	}
}

func TestDumpValidation(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want error
	}{
		{
			name: "relative path",
			msg: &Message{
				Op: OpGet, Path: "sval",
				Selector: value.Selector{Trait: "a.B", Elem: "C"},
			},
			want: errdefs.ErrMalformedPath,
		},
		{
			name: "empty path",
			msg: &Message{
				Op:       OpGet,
				Selector: value.Selector{Trait: "a.B", Elem: "C"},
			},
			want: errdefs.ErrMalformedPath,
		},
		{
			name: "NUL in path",
			msg: &Message{
				Op: OpGet, Path: "/a\x00b",
				Selector: value.Selector{Trait: "a.B", Elem: "C"},
			},
			want: errdefs.ErrMalformedPath,
		},
		{
			name: "empty selector",
			msg:  &Message{Op: OpGet, Path: "/a"},
			want: errdefs.ErrInvalidData,
		},
		{
			name: "get with value",
			msg: &Message{
				Op: OpGet, Path: "/a",
				Selector: value.Selector{Trait: "a.B", Elem: "C"},
				Value:    value.Unit{},
			},
			want: errdefs.ErrInvalidData,
		},
		{
			name: "exec without value",
			msg: &Message{
				Op: OpExec, Path: "/a",
				Selector: value.Selector{Trait: "a.B", Elem: "C"},
			},
			want: errdefs.ErrInvalidData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.msg.Dump()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte{0x7f, 0, 0, 0, 0})
	assert.True(t, errors.Is(err, errdefs.ErrInvalidData))

	_, err = Load([]byte{byte(KindBye), 0, 0, 0, 0, 0x7f})
	assert.True(t, errors.Is(err, errdefs.ErrInvalidData))

	_, err = Load(nil)
	assert.Error(t, err)
}

func TestLoadRejectsTrailingBytes(t *testing.T) {
	raw, err := (&Hello{Seq: 1, Version: ProtocolVersion}).Dump()
	require.NoError(t, err)

	_, err = Load(append(raw, 0))
	assert.True(t, errors.Is(err, errdefs.ErrBadMessage))
}

func TestLoadTruncated(t *testing.T) {
	msg := &Message{
		Op: OpSet, Seq: 5, Path: "/sval",
		Selector: value.Selector{Trait: "sval.Sval", Elem: "Value"},
		Value:    value.Str("hello"),
	}
	raw, err := msg.Dump()
	require.NoError(t, err)

	for n := 1; n < len(raw); n++ {
		_, err := Load(raw[:n])
		assert.Error(t, err, "prefix of %d bytes should not parse", n)
	}
}

func TestLoadFile(t *testing.T) {
	msg := &Message{
		Op: OpExec, Seq: 9, Path: "/dicey/test/echo",
		Selector: value.Selector{Trait: "dicey.test.Echo", Elem: "Echo"},
		Value:    value.Str("ping"),
	}
	raw, err := msg.Dump()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "packet.bin")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	out, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.True(t, errors.Is(err, errdefs.ErrFileNotFound))
}

func TestLoadFrom(t *testing.T) {
	raw, err := (&Bye{Seq: 2, Reason: ReasonShutdown}).Dump()
	require.NoError(t, err)

	out, err := LoadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, &Bye{Seq: 2, Reason: ReasonShutdown}, out)
}

func TestBuilder(t *testing.T) {
	msg, err := NewBuilder(OpExec).
		Seq(11).
		Path("/dicey/test/echo").
		Selector("dicey.test.Echo", "Echo").
		Value(value.Str("hi")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, OpExec, msg.Op)
	assert.Equal(t, uint32(11), msg.Seq)
	assert.Equal(t, "/dicey/test/echo", msg.Path)

	_, err = NewBuilder(OpGet).Path("relative").Selector("a.B", "C").Build()
	assert.True(t, errors.Is(err, errdefs.ErrMalformedPath))
}

func TestStringRendering(t *testing.T) {
	h := &Hello{Seq: 1, Version: Version{Major: 1, Revision: 0}}
	assert.Equal(t, "Hello{seq: 1, version: 1.0}", h.String())

	b := &Bye{Seq: 2, Reason: ReasonShutdown}
	assert.Equal(t, "Bye{seq: 2, reason: shutdown}", b.String())

	m := &Message{
		Op: OpGet, Seq: 3, Path: "/sval",
		Selector: value.Selector{Trait: "sval.Sval", Elem: "Value"},
	}
	assert.Equal(t, "Get{seq: 3, path: /sval, selector: sval.Sval#Value}", m.String())
}
