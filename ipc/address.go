// Package ipc implements the dicey client: connection handling over unix
// sockets and Windows named pipes, request/response correlation, event
// delivery and object introspection.
package ipc

import (
	"context"
	"net"
	"strings"

	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
)

// Address locates a dicey server. Network is either "unix" or "npipe".
type Address struct {
	Network string
	Addr    string
}

// ParseAddress understands "unix:PATH" and "npipe:NAME" forms. A bare
// string is taken as a unix socket path, unless it spells a pipe name
// (`\\.\pipe\...`).
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, errors.Wrap(errdefs.ErrInvalidData, "empty address")
	}
	if strings.IndexByte(s, 0) >= 0 {
		return Address{}, errors.Wrapf(errdefs.ErrInvalidData, "embedded NUL in address %q", s)
	}

	switch {
	case strings.HasPrefix(s, "unix:"):
		s = s[len("unix:"):]
		if s == "" {
			return Address{}, errors.Wrap(errdefs.ErrInvalidData, "empty unix socket path")
		}
		return Address{Network: "unix", Addr: s}, nil

	case strings.HasPrefix(s, "npipe:"):
		s = s[len("npipe:"):]
		if s == "" {
			return Address{}, errors.Wrap(errdefs.ErrInvalidData, "empty pipe name")
		}
		return Address{Network: "npipe", Addr: s}, nil

	case strings.HasPrefix(s, `\\.\pipe\`):
		return Address{Network: "npipe", Addr: s}, nil
	}

	return Address{Network: "unix", Addr: s}, nil
}

func (a Address) String() string {
	return a.Network + ":" + a.Addr
}

// Dial opens a transport connection to the address using the platform
// dialer.
func (a Address) Dial(ctx context.Context) (net.Conn, error) {
	switch a.Network {
	case "unix", "npipe":
	default:
		return nil, errors.Wrapf(errdefs.ErrInvalidData, "unrecognized network %q", a.Network)
	}

	conn, err := dialContext(ctx, a.Network, a.Addr)
	if err != nil {
		return nil, errors.Wrapf(errdefs.MapIO(err), "dialing %s", a)
	}
	return conn, nil
}
