package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/message"
)

// runLoad decodes packet dumps from disk and prints them, mostly useful
// when poking at captured traffic.
func runLoad(files []string) error {
	for _, file := range files {
		pkt, err := message.LoadFile(file)
		if err != nil {
			return err
		}

		if len(files) > 1 {
			fmt.Printf("%s: %s\n", file, pkt)
			continue
		}
		fmt.Println(pkt)
	}
	return nil
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE [FILE...]",
		Short: "Decode and print packet dumps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args)
		},
	}
}
