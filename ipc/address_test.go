package ipc

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zurutech/dicey-go/errdefs"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		in   string
		want Address
	}{
		{"unix:/tmp/dicey.sock", Address{Network: "unix", Addr: "/tmp/dicey.sock"}},
		{"npipe:dicey", Address{Network: "npipe", Addr: "dicey"}},
		{`\\.\pipe\dicey`, Address{Network: "npipe", Addr: `\\.\pipe\dicey`}},
		{"/run/dicey.sock", Address{Network: "unix", Addr: "/run/dicey.sock"}},
		{"relative.sock", Address{Network: "unix", Addr: "relative.sock"}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAddress(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAddressRejects(t *testing.T) {
	for _, in := range []string{"", "unix:", "npipe:", "unix:/tmp/a\x00b"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAddress(in)
			assert.True(t, errors.Is(err, errdefs.ErrInvalidData), "got %v", err)
		})
	}
}

func TestAddressString(t *testing.T) {
	a := Address{Network: "unix", Addr: "/tmp/dicey.sock"}
	assert.Equal(t, "unix:/tmp/dicey.sock", a.String())
}

func TestDialRejectsUnknownNetwork(t *testing.T) {
	_, err := Address{Network: "tcp", Addr: "localhost:1234"}.Dial(context.Background())
	assert.True(t, errors.Is(err, errdefs.ErrInvalidData))
}
