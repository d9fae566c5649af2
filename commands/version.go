package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/message"
	"github.com/zurutech/dicey-go/version"
)

func runVersion() error {
	fmt.Println(version.Package, version.Version, version.Revision)
	fmt.Printf("protocol %s\n", message.ProtocolVersion)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show dicey version information",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}
}
