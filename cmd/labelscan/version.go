package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	httpDelivery "github.com/JoudMawad/Ignite-sub000/internal/delivery/http"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "labelscan %s\n", httpDelivery.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Go: %s\n", runtime.Version())
		},
	}
}
