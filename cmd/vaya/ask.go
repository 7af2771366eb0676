package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
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

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = "default"
		}

		result, err := assistant.Ask(cmd.Context(), sessionID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(result.Response)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("session", "s", "", "Session ID for cross-turn memory (default: \"default\")")
}
