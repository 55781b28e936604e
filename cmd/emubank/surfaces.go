package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/james-see/emubank/pkg/api"
	"github.com/james-see/emubank/pkg/mcpserver"
	"github.com/james-see/emubank/pkg/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [bank]",
		Short: "Launch the interactive bank browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return tui.Run(path, a.cfg.Capacity())
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Port
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %s...\n", port)
			return api.StartServer(port, api.Options{
				Rate:     a.cfg.Rate,
				Burst:    a.cfg.Burst,
				Capacity: a.cfg.Capacity(),
				Logger:   a.log,
			})
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Server port (default from config, 8080)")
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve bank inspection tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Serve(a.cfg.Capacity(), a.log)
		},
	}
}
