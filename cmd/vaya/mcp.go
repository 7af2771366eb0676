package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliasvillacis/vaya"
	"github.com/eliasvillacis/vaya/pkg/adapters/mcpserver"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the assistant as an MCP server over stdio.
This lets AI agents drive conversational turns and invoke individual
capabilities (geocoding, weather, directions, places) as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		assistant := newAssistant(cfg, store, logger)

		srv := mcpserver.NewServer(assistant, assistant.Invoker(), assistant.Registry().Names(), vaya.Version)

		// Ensure logs don't corrupt JSON-RPC on Stdout.
		log.SetOutput(os.Stderr)
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
