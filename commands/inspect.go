package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zurutech/dicey-go/ipc"
)

type inspectOptions struct {
	xml bool
}

func runInspect(opts *rootOptions, in inspectOptions, path string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cln, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer cln.Close()

	if in.xml {
		xml, err := cln.InspectXML(ctx, path)
		if err != nil {
			return err
		}
		fmt.Println(xml)
		return nil
	}

	info, err := cln.Inspect(ctx, path)
	if err != nil {
		return err
	}

	printObjectInfo(info)
	return nil
}

func printObjectInfo(info *ipc.ObjectInfo) {
	fmt.Printf("object %s\n", info.Path)

	traits := make([]string, 0, len(info.Traits))
	for name := range info.Traits {
		traits = append(traits, name)
	}
	sort.Strings(traits)

	for _, name := range traits {
		fmt.Printf("  trait %s\n", name)

		members := info.Traits[name]
		names := make([]string, 0, len(members))
		for mname := range members {
			names = append(names, mname)
		}
		sort.Strings(names)

		for _, mname := range names {
			el := members[mname]
			if el.Kind == ipc.ElementProperty && el.ReadOnly {
				fmt.Printf("    %s %s: %s (read-only)\n", el.Kind, mname, el.Signature)
				continue
			}
			fmt.Printf("    %s %s: %s\n", el.Kind, mname, el.Signature)
		}
	}
}

func inspectCmd(opts *rootOptions) *cobra.Command {
	var options inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect PATH",
		Short: "Show the traits and members of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, options, args[0])
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&options.xml, "xml", false, "Print the XML rendition instead")

	return cmd
}
