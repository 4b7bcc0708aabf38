package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenticum/agenticum/internal/cli"
	"github.com/agenticum/agenticum/internal/presentation/tui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect campaign sessions",
	Long:  `List and inspect campaign sessions held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		defer app.Close()

		ids, err := app.Engine.ListSessions(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		for _, id := range ids {
			session, err := app.Engine.GetSession(cmd.Context(), id)
			if err != nil {
				fmt.Printf("- %s (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("- %s  %s  %q\n", id, tui.StatusDot(string(session.Status)), session.Intent)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the full session document as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustApp(cmd)
		defer app.Close()

		session, err := app.Engine.GetSession(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

func mustApp(cmd *cobra.Command) *cli.App {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	app, err := cli.NewApp(cmd.Context(), cfg)
	if err != nil {
		fmt.Printf("Error initializing agenticum: %v\n", err)
		os.Exit(1)
	}
	return app
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
}
