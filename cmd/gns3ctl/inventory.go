package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/render"
	"github.com/gns3ops/gns3ctl/internal/tasks"
)

func newInventoryCmd(root *rootFlags) *cobra.Command {
	server := &serverFlags{}
	var projectName string
	var projectID string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Report per-node console endpoints for a project",
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
				ID:   "inventory",
				Type: "inventory",
				Inventory: &config.InventoryTask{
					ProjectRef: config.ProjectRef{
						ProjectName: projectName,
						ProjectID:   projectID,
					},
				},
			}
			if err := config.ValidateTask(*task); err != nil {
				return err
			}

			module, err := tasks.Get("inventory")
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
	cmd.Flags().StringVar(&projectName, "project", "", "Project name")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Project UUID")

	return cmd
}
