package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type getOptions struct {
	time bool
}

func runGet(opts *rootOptions, in getOptions, path, selector string) error {
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
	out, err := cln.Get(ctx, path, sel)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s = %s\n", path, sel, out)

	if in.time {
		printReqTime(elapsed)
	}
	return nil
}

func getCmd(opts *rootOptions) *cobra.Command {
	var options getOptions

	cmd := &cobra.Command{
		Use:   "get PATH TRAIT#ELEM",
		Short: "Read a property of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, options, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&options.time, "time", "t", false, "Report how long the request took")

	return cmd
}
