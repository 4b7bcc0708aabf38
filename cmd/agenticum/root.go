package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenticum/agenticum/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "agenticum",
	Short: "Agenticum is an AI marketing campaign orchestrator",
	Long: `Agenticum plans and executes multi-agent marketing campaigns:
an LLM planner proposes a two-phase execution plan, a human approves it,
and specialist nodes produce strategy, audit, video and design assets.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "agenticum.yaml", "Path to the configuration file")
}

func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return cli.LoadConfig(path)
}
