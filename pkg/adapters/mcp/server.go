// Package mcp exposes the orchestration engine as an MCP server, so
// agent hosts can drive campaigns as tools instead of raw HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agenticum/agenticum/internal/orchestrator"
	"github.com/agenticum/agenticum/pkg/domain"
)

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    *orchestrator.Engine
	evaluator *orchestrator.Evaluator
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server. The evaluator may be nil, in which
// case the evaluation tool reports itself unavailable.
func NewServer(engine *orchestrator.Engine, evaluator *orchestrator.Evaluator, version string) *Server {
	s := &Server{
		engine:    engine,
		evaluator: evaluator,
		mcpServer: server.NewMCPServer("agenticum-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_campaign",
		mcp.WithDescription("Create a campaign session from a natural-language intent. The session plans itself and pauses for approval."),
		mcp.WithString("intent", mcp.Required(), mcp.Description("The campaign intent, e.g. 'Launch a productivity app'")),
	), s.handleStartCampaign)

	s.mcpServer.AddTool(mcp.NewTool("approve_session",
		mcp.WithDescription("Approve a paused session and run it to completion."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The session to approve")),
		mcp.WithString("notes", mcp.Description("Optional operator notes")),
	), s.handleApproveSession)

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full session document: status, plan, node states, logs and assets."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The session to inspect")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("evaluate_ab",
		mcp.WithDescription("Run an A/B evaluation of two campaign asset texts."),
		mcp.WithString("asset_a", mcp.Required(), mcp.Description("Variant A content")),
		mcp.WithString("asset_b", mcp.Required(), mcp.Description("Variant B content")),
	), s.handleEvaluateAB)
}

func (s *Server) handleStartCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intent, err := request.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID, err := s.engine.Start(ctx, intent)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(`{"sessionId":%q,"status":"awaiting_approval"}`, sessionID)), nil
}

func (s *Server) handleApproveSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes := request.GetString("notes", "")

	// MCP callers hold the connection open, so the resume runs inline
	// rather than through the fire-and-forget queue.
	if err := s.engine.Resume(ctx, sessionID, domain.Approval{Approved: true, Notes: notes}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resume failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(`{"sessionId":%q,"status":"completed"}`, sessionID)), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := s.engine.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleEvaluateAB(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.evaluator == nil {
		return mcp.NewToolResultError("evaluation is not configured"), nil
	}
	assetA, err := request.RequireString("asset_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	assetB, err := request.RequireString("asset_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.evaluator.Evaluate(ctx, assetA, assetB)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}
