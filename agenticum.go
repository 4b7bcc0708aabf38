// Package agenticum is an AI marketing campaign orchestrator: a
// plan-then-execute engine that turns one natural-language intent into
// a strategy, a competitive audit, a video concept and a visual
// identity, with a human approval gate between planning and execution.
package agenticum

// Version is the release version reported by the CLI and the MCP server.
const Version = "0.1.0"
