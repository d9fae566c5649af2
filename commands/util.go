package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// commandContext is cancelled on SIGINT/SIGTERM so a command can tear
// down its connection cleanly.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// estimate scales a per-request duration to requests per second with a
// human unit prefix.
func estimate(reqtime time.Duration) (float64, string) {
	reqs := float64(time.Second) / float64(reqtime)

	switch {
	case reqs > 1e9:
		return reqs / 1e9, "G"
	case reqs > 1e6:
		return reqs / 1e6, "M"
	case reqs > 1e3:
		return reqs / 1e3, "k"
	}
	return reqs, ""
}

// printReqTime reports how long a single request took and the throughput
// it implies.
func printReqTime(elapsed time.Duration) {
	reqs, unit := estimate(elapsed)
	fmt.Printf("reqtime: %dus (%.2f %sreq/s)\n", elapsed.Microseconds(), reqs, unit)
}
