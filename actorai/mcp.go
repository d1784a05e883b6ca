package actorai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hollowmere/kernel"
)

// mcpBridge exposes two tools over MCP — "act" and "release" — letting
// an external client drive any AIActor-scoped entity directly, bypassing
// its own think loop from the first act until release is called.
//
// No file anywhere in the example pack constructs an mcp-go server (the
// teacher's mcp/tool_adapter.go is client-side only: it wraps a remote
// MCP tool as a Dive Tool, the opposite direction). This bridge is
// therefore written from mark3labs/mcp-go's own published server API
// rather than an in-pack grounded call site — the one acknowledged
// grounding gap in this package.
type mcpBridge struct {
	plugin *Plugin
	mcp    *server.MCPServer
	http   *server.StreamableHTTPServer
}

func newMCPBridge(p *Plugin) *mcpBridge {
	s := server.NewMCPServer("hollowmere-actorai", "0.1.0")

	s.AddTool(mcp.NewTool("act",
		mcp.WithDescription("Issue a free-text command as a named AI-driven actor, pausing its own think loop until release is called."),
		mcp.WithString("actor", mcp.Required(), mcp.Description("the acting entity's display name")),
		mcp.WithString("command", mcp.Required(), mcp.Description("the free-text command to perform, as if typed by the actor")),
	), p.handleAct)

	s.AddTool(mcp.NewTool("release",
		mcp.WithDescription("Resume an actor's own think loop, releasing this client's control of it."),
		mcp.WithString("actor", mcp.Required(), mcp.Description("the acting entity's display name")),
	), p.handleRelease)

	return &mcpBridge{plugin: p, mcp: s, http: server.NewStreamableHTTPServer(s)}
}

func (b *mcpBridge) start(addr string) error {
	return b.http.Start(addr)
}

func (b *mcpBridge) shutdown(ctx context.Context) error {
	return b.http.Shutdown(ctx)
}

func (p *Plugin) handleAct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actorName, err := req.RequireString("actor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command, err := req.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := p.domain.OpenSession(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer session.Close(ctx)

	if err := p.setPaused(session, actorName, true); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsName(actorName), command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("%q was not understood", command)), nil
	}
	return mcp.NewToolResultText(describeEffect(effect)), nil
}

func (p *Plugin) handleRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actorName, err := req.RequireString("actor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := p.domain.OpenSession(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer session.Close(ctx)

	if err := p.setPaused(session, actorName, false); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s's think loop resumed", actorName)), nil
}

// describeEffect renders an Effect as text for an MCP tool result. The
// domain reply vocabulary (reply.go) is a set of plain JSON-tagged
// structs with no Stringer, so this marshals whichever one is present
// rather than hand-writing a case per reply type.
func describeEffect(effect hollowmere.Effect) string {
	if reply, ok := effect.Reply(); ok {
		if b, err := json.Marshal(reply); err == nil {
			return string(b)
		}
	}
	if payload, ok := effect.JSON(); ok {
		return string(payload)
	}
	return "ok"
}
