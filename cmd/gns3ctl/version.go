package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gns3ops/gns3ctl/internal/gns3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd(root *rootFlags) *cobra.Command {
	server := &serverFlags{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information and, optionally, the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gns3ctl %s\ncommit: %s\nbuilt: %s\n", version, commit, date)

			if server.url == "" {
				return nil
			}

			client, err := server.client()
			if err != nil {
				return err
			}

			v, err := client.Version(context.Background())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "server: %s (local: %t)\n", v.Version, v.Local)
			return nil
		},
	}

	cmd.Flags().StringVar(&server.url, "server", "", "GNS3 server URL to query for its version")
	cmd.Flags().IntVar(&server.port, "port", gns3.DefaultPort, "GNS3 server REST API port")
	cmd.Flags().StringVar(&server.user, "user", "", "HTTP basic auth user")
	cmd.Flags().StringVar(&server.password, "password", "", "HTTP basic auth password")

	return cmd
}
