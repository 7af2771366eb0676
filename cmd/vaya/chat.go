package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eliasvillacis/vaya/internal/presentation/tui"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Starts an interactive terminal session with the assistant. Conversation state persists under the session store, so follow-ups like "directions to the second one" keep working across runs.`,
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
			sessionID = uuid.NewString()
		}

		plain, _ := cmd.Flags().GetBool("plain")
		render := tui.NewRenderer()

		if !plain {
			tui.PrintBanner()
			fmt.Printf("Session: %s\n", sessionID)
			fmt.Println("Type your question, or 'exit' to quit.")
			fmt.Println()
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				continue
			}
			if query == "exit" || query == "quit" {
				break
			}

			result, err := assistant.Ask(cmd.Context(), sessionID, query)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}

			if plain {
				fmt.Println(result.Response)
				continue
			}
			if pretty, err := render(result.Response); err == nil {
				fmt.Print(pretty)
			} else {
				fmt.Println(result.Response)
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: a fresh UUID)")
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")

	// Make 'chat' the default when no subcommand is given.
	rootCmd.RunE = chatCmd.RunE
}
