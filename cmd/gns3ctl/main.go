package main

import (
	"fmt"
	"os"

	"github.com/gns3ops/gns3ctl/internal/tasks"
)

func main() {
	if err := tasks.RegisterBuiltins(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register task modules: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
