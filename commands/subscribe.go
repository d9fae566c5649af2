package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type subscribeOptions struct {
	duration time.Duration
}

// runSubscribe registers for a signal and prints events as they arrive,
// until interrupted or the optional duration elapses. The registration
// is dropped on the way out.
func runSubscribe(opts *rootOptions, in subscribeOptions, path, selector string) error {
	ctx, cancel := commandContext()
	defer cancel()

	sel, err := parseSelector(selector)
	if err != nil {
		return err
	}

	cln, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer cln.Close()

	if err := cln.Subscribe(ctx, path, sel); err != nil {
		return err
	}
	fmt.Printf("subscribed to %s %s\n", path, sel)

	if in.duration > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, in.duration)
		defer tcancel()
	}

loop:
	for {
		select {
		case ev, ok := <-cln.Events():
			if !ok {
				break loop
			}
			fmt.Printf("received event: %s\n", ev)
		case <-ctx.Done():
			break loop
		}
	}

	// best effort: the server may already be gone
	unsubCtx, ucancel := context.WithTimeout(context.Background(), time.Second)
	defer ucancel()
	if err := cln.Unsubscribe(unsubCtx, path, sel); err != nil {
		logrus.WithError(err).Debug("unsubscribe failed")
	}
	return nil
}

func subscribeCmd(opts *rootOptions) *cobra.Command {
	var options subscribeOptions

	cmd := &cobra.Command{
		Use:   "subscribe PATH TRAIT#ELEM",
		Short: "Listen for a signal of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribe(opts, options, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.DurationVarP(&options.duration, "duration", "d", 0, "Stop listening after this long (default: until interrupted)")

	return cmd
}
