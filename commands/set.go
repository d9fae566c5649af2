package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/value"
)

type setOptions struct {
	time bool
}

func runSet(opts *rootOptions, in setOptions, path, selector, val string) error {
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

	start := time.Now()
	err = cln.Set(ctx, path, sel, value.Str(val))
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	if in.time {
		printReqTime(elapsed)
	}
	return nil
}

func setCmd(opts *rootOptions) *cobra.Command {
	var options setOptions

	cmd := &cobra.Command{
		Use:   "set PATH TRAIT#ELEM VALUE",
		Short: "Write a string property of an object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, options, args[0], args[1], args[2])
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&options.time, "time", "t", false, "Report how long the request took")

	return cmd
}
