package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
)

// serverFlags carry ad-hoc connection parameters for commands that run
// without a playbook.
type serverFlags struct {
	url      string
	port     int
	user     string
	password string
	timeout  int
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "server", "", "GNS3 server URL, e.g. http://gns3-server")
	cmd.Flags().IntVar(&f.port, "port", gns3.DefaultPort, "GNS3 server REST API port")
	cmd.Flags().StringVar(&f.user, "user", "", "HTTP basic auth user")
	cmd.Flags().StringVar(&f.password, "password", "", "HTTP basic auth password")
	cmd.Flags().IntVar(&f.timeout, "timeout", 30, "Request timeout in seconds")
	cmd.MarkFlagRequired("server") //nolint:errcheck
}

func (f *serverFlags) client() (*gns3.Client, error) {
	return gns3.NewClient(gns3.Config{
		URL:      f.url,
		Port:     f.port,
		User:     f.user,
		Password: f.password,
		Timeout:  time.Duration(f.timeout) * time.Second,
	})
}

func newCommandLogger(verbose, jsonOut bool) (*logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: !jsonOut})
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
