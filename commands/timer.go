package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/value"
)

const (
	timerPath         = "/dicey/test/timer"
	timerTrait        = "dicey.test.Timer"
	timerStartElement = "Start"
	timerFiredElement = "TimerFired"
)

// runTimer subscribes to the test timer signal, arms the timer for the
// given number of seconds and prints events until it fires.
func runTimer(opts *rootOptions, seconds int) error {
	ctx, cancel := commandContext()
	defer cancel()

	cln, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer cln.Close()

	fired := value.Selector{Trait: timerTrait, Elem: timerFiredElement}

	if err := cln.Subscribe(ctx, timerPath, fired); err != nil {
		return err
	}

	out, err := cln.Exec(ctx, timerPath,
		value.Selector{Trait: timerTrait, Elem: timerStartElement},
		value.Int32(seconds),
	)
	if err != nil {
		return err
	}
	if err := value.AsUnit(out); err != nil {
		return err
	}

	// one extra second of grace over the requested delay
	wait := time.Duration(seconds+1) * time.Second
	waitCtx, wcancel := context.WithTimeout(ctx, wait)
	defer wcancel()

	for {
		select {
		case ev, ok := <-cln.Events():
			if !ok {
				return errors.New("connection lost while waiting for the timer")
			}
			fmt.Printf("received event: %s\n", ev)

			if ev.Path == timerPath && ev.Selector == fired {
				return cln.Unsubscribe(ctx, timerPath, fired)
			}
		case <-waitCtx.Done():
			return errors.Errorf("timer did not fire within %s", wait)
		}
	}
}

func timerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timer SECONDS",
		Short: "Arm the server's test timer and wait for it to fire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(args[0])
			if err != nil || seconds < 0 {
				return errors.Errorf("invalid seconds %q", args[0])
			}
			return runTimer(opts, seconds)
		},
	}
}
