package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/render"
	"github.com/gns3ops/gns3ctl/internal/tasks"
)

func newFactsCmd(root *rootFlags) *cobra.Command {
	server := &serverFlags{}
	var getImages string
	var getPorts bool

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Gather compute facts from a GNS3 server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := server.client()
			if err != nil {
				return err
			}

			log, err := newCommandLogger(root.verbose, root.jsonOut)
			if err != nil {
				return err
			}

			task := &config.Task{
				ID:   "facts",
				Type: "facts",
				Facts: &config.FactsTask{
					GetImages:       getImages,
					GetComputePorts: getPorts,
				},
			}
			if err := config.ValidateTask(*task); err != nil {
				return err
			}

			module, err := tasks.Get("facts")
			if err != nil {
				return err
			}

			result, err := module.Run(context.Background(), client, task, log)
			if err != nil {
				return err
			}

			return render.New(cmd.OutOrStdout(), false).Data(result.Data)
		},
	}

	server.register(cmd)
	cmd.Flags().StringVar(&getImages, "images", "", `Collect image lists: "all" or an emulator name`)
	cmd.Flags().BoolVar(&getPorts, "ports", false, "Collect console and UDP port configuration")

	return cmd
}
