// Package mcp exposes the chatbot as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hankyong/campus-chatbot/internal/middleware"
	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

// BasePath is where the SSE transport is mounted.
const BasePath = "/mcp"

// Chat is the conversation pipeline the tools call into.
type Chat interface {
	Handle(ctx context.Context, userID, message string) *model.ChatResponse
	Summary(ctx context.Context, userID string) *model.ChatResponse
}

// Server implements the MCP server for the chatbot.
type Server struct {
	chat      Chat
	mcpServer *server.MCPServer
	logger    *logger.Logger
}

// NewServer creates a new MCP server.
func NewServer(chat Chat, version string, log *logger.Logger) *Server {
	s := &Server{
		chat:   chat,
		logger: log.Named("mcp"),
	}

	s.mcpServer = server.NewMCPServer(
		"Hankyong Campus Chatbot",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "ask_campus",
		Description: "Ask the campus chatbot about cafeteria menus, notices or the academic schedule. Follow-up questions from the same user_id reuse the previous turn's context for 30 minutes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable identifier of the person asking",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The question in Korean, e.g. '오늘 기숙사식당 메뉴 알려줘'",
				},
			},
			Required: []string{"user_id", "message"},
		},
	}, s.handleAsk)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "last_intent",
		Description: "Describe the last question category a user asked about, or greet a user without recent context",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable identifier of the person asking",
				},
			},
			Required: []string{"user_id"},
		},
	}, s.handleLastIntent)
}

func parseParams(args interface{}, target interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		UserID  string `json:"user_id"`
		Message string `json:"message"`
	}
	if err := parseParams(request.Params.Arguments, &params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	params.UserID = strings.TrimSpace(params.UserID)
	if err := middleware.ValidateUserID(params.UserID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := middleware.ValidateMessage(params.Message); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := s.chat.Handle(ctx, params.UserID, params.Message)
	s.logger.ForTurn("", params.UserID).Debug("tool ask_campus answered")
	return toolResult(resp)
}

func (s *Server) handleLastIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		UserID string `json:"user_id"`
	}
	if err := parseParams(request.Params.Arguments, &params); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	params.UserID = strings.TrimSpace(params.UserID)
	if err := middleware.ValidateUserID(params.UserID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toolResult(s.chat.Summary(ctx, params.UserID))
}

func toolResult(resp *model.ChatResponse) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode reply: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// SSEHandler returns the SSE transport, to be mounted at BasePath.
func (s *Server) SSEHandler() http.Handler {
	s.logger.Info("MCP SSE endpoint enabled",
		zap.String("sse", BasePath+"/sse"),
		zap.String("message", BasePath+"/message"),
	)
	return server.NewSSEServer(
		s.mcpServer,
		server.WithBasePath(BasePath),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(15*time.Second),
	)
}
