package commands

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zurutech/dicey-go/ipc"
	"github.com/zurutech/dicey-go/util/confutil"
	"github.com/zurutech/dicey-go/util/logutil"
	"github.com/zurutech/dicey-go/value"
)

type rootOptions struct {
	addr    string
	timeout time.Duration
	debug   bool
}

// NewRootCmd assembles the dicey CLI.
func NewRootCmd(name string) *cobra.Command {
	var options rootOptions

	cmd := &cobra.Command{
		Short:         "Talk to a dicey server",
		Use:           name,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if options.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			logrus.AddHook(logutil.NewFilter([]logrus.Level{
				logrus.DebugLevel,
			}, "dropping undecodable packet"))
		},
	}

	rootFlags(&options, cmd.PersistentFlags())
	addCommands(cmd, &options)
	return cmd
}

func rootFlags(options *rootOptions, flags *pflag.FlagSet) {
	flags.StringVarP(&options.addr, "addr", "a", "", "Server address (unix:PATH or npipe:NAME)")
	flags.DurationVar(&options.timeout, "timeout", 0, "Request timeout")
	flags.BoolVarP(&options.debug, "debug", "D", false, "Enable debug logging")
}

func addCommands(cmd *cobra.Command, opts *rootOptions) {
	cmd.AddCommand(
		echoCmd(opts),
		getCmd(opts),
		inspectCmd(opts),
		loadCmd(),
		setCmd(opts),
		subscribeCmd(opts),
		timerCmd(opts),
		versionCmd(),
	)
}

// connect resolves the effective settings from config file and flags and
// opens a client connection.
func connect(ctx context.Context, opts *rootOptions) (*ipc.Client, error) {
	cfg, err := confutil.Load(confutil.Dir())
	if err != nil {
		return nil, err
	}

	addr := cfg.Address
	if opts.addr != "" {
		addr = opts.addr
	}
	if addr == "" {
		return nil, errors.New("no server address: pass --addr or set it in the config file")
	}

	timeout := cfg.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	return ipc.Connect(ctx, addr, &ipc.Options{
		Timeout:        timeout,
		EventQueueSize: cfg.EventQueueSize,
	})
}

// parseSelector splits a "TRAIT#ELEM" argument.
func parseSelector(s string) (value.Selector, error) {
	trait, elem, ok := strings.Cut(s, "#")
	if !ok || trait == "" || elem == "" {
		return value.Selector{}, errors.Errorf("invalid selector %q, expected TRAIT#ELEM", s)
	}
	return value.Selector{Trait: trait, Elem: elem}, nil
}
