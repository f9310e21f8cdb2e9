package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/engine"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/render"
)

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <playbook-file>",
		Short: "Apply a gns3ctl playbook against a GNS3 server",
		Long: `Apply parses a playbook, connects to the GNS3 server it declares and
runs every task in document order. Tasks are idempotent: a playbook whose
desired state already holds reports changed=false throughout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyCmdRunner(cmd, root, args[0])
		},
	}

	return cmd
}

func runApply(cmd *cobra.Command, root *rootFlags, playbookPath string) error {
	pb, err := config.ParsePlaybook(playbookPath)
	if err != nil {
		return err
	}

	log, err := newCommandLogger(root.verbose || pb.Settings.Verbose, root.jsonOut)
	if err != nil {
		return err
	}

	client, err := gns3.NewClient(gns3.Config{
		URL:      pb.Server.URL,
		Port:     pb.Server.Port,
		User:     pb.Server.User,
		Password: pb.Server.Password,
		Timeout:  time.Duration(pb.Settings.Timeout) * time.Second,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, runErr := engine.NewRunner(client, log).Run(ctx, pb)

	out := cmd.OutOrStdout()
	renderer := render.New(out, isTerminal(out))
	if root.jsonOut {
		if err := renderer.JSON(summary); err != nil {
			return err
		}
	} else {
		renderer.Summary(summary)
	}

	return runErr
}
