package ipc

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

func dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	// dial context doesn't support named pipes
	if network == "npipe" {
		return winio.DialPipeContext(ctx, addr)
	}

	dialer := &net.Dialer{}
	return dialer.DialContext(ctx, network, addr)
}
