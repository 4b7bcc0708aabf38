package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticum/agenticum"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agenticum",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agenticum version %s\n", strings.TrimSpace(agenticum.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
