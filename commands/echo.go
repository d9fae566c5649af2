package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/value"
)

const (
	echoPath    = "/dicey/test/echo"
	echoTrait   = "dicey.test.Echo"
	echoElement = "Echo"
)

// runEcho bounces a fresh UUID off the server's echo object and checks
// it comes back intact.
func runEcho(opts *rootOptions) error {
	ctx, cancel := commandContext()
	defer cancel()

	cln, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer cln.Close()

	id := uuid.New()
	fmt.Printf("uuid (send) = %s\n", id)

	out, err := cln.Exec(ctx, echoPath,
		value.Selector{Trait: echoTrait, Elem: echoElement},
		value.UUID(id),
	)
	if err != nil {
		return err
	}

	got, err := value.AsUUID(out)
	if err != nil {
		return err
	}
	fmt.Printf("uuid (recv) = %s\n", got)

	if got != id {
		return errors.Errorf("echo mismatch: sent %s, got %s", id, got)
	}
	return nil
}

func echoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "echo",
		Short: "Round-trip a UUID through the server's echo object",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEcho(opts)
		},
	}
}
