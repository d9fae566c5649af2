//go:build !windows

package ipc

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
)

func dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if network == "npipe" {
		return nil, errors.Wrap(errdefs.ErrInvalidData, "named pipes are only available on Windows")
	}

	dialer := &net.Dialer{}
	return dialer.DialContext(ctx, network, addr)
}
