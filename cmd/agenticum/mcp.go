package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agenticum/agenticum"
	"github.com/agenticum/agenticum/internal/cli"
	"github.com/agenticum/agenticum/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Agenticum engine as an MCP Server.
This allows AI agents to start campaigns, approve plans and inspect
sessions as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

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
		defer app.Close()

		srv := mcp.NewServer(app.Engine, app.Evaluator, agenticum.Version)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout.
			log.SetOutput(os.Stderr)
			app.Logger.Info("starting MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				app.Logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			app.Logger.Info("starting MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					app.Logger.Error("MCP server execution failed", "error", err)
					os.Exit(1)
				}
			}
			app.Logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
