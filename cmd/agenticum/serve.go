package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/agenticum/agenticum/internal/adapters/http"
	"github.com/agenticum/agenticum/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orchestration HTTP server",
	Long:  `Starts the Agenticum engine in server mode, exposing the campaign API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}

		app, err := cli.NewApp(cmd.Context(), cfg)
		if err != nil {
			fmt.Printf("Error initializing agenticum: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		server := httpadapter.NewServer(app.Engine, app.Dispatcher,
			httpadapter.WithEvaluator(app.Evaluator),
			httpadapter.WithBlobStore(app.Blobs),
			httpadapter.WithMetricsRegistry(app.Registry),
			httpadapter.WithLogger(app.Logger),
		)

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Agenticum Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Agenticum Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
