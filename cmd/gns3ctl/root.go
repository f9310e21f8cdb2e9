package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	jsonOut bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gns3ctl",
		Short:         "gns3ctl drives GNS3 network labs from declarative playbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "Output results in JSON format")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newFactsCmd(flags))
	cmd.AddCommand(newInventoryCmd(flags))
	cmd.AddCommand(newVersionCmd(flags))

	return cmd
}
