package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankyong/campus-chatbot/internal/model"
	"github.com/hankyong/campus-chatbot/pkg/logger"
)

type fakeChat struct {
	userID  string
	message string
}

func (f *fakeChat) Handle(_ context.Context, userID, message string) *model.ChatResponse {
	f.userID, f.message = userID, message
	return model.NewChatResponse(model.IntentDormCafeteria, "[2024-05-15]\n[저녁]\n카레")
}

func (f *fakeChat) Summary(_ context.Context, userID string) *model.ChatResponse {
	f.userID = userID
	return model.UntaggedResponse("안녕하세요!")
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleAsk(t *testing.T) {
	chat := &fakeChat{}
	s := NewServer(chat, "test", logger.NewNop())

	res, err := s.handleAsk(context.Background(), call(map[string]any{
		"user_id": " agent-1 ",
		"message": "오늘 기숙사식당 저녁",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "agent-1", chat.userID)
	assert.Equal(t, "오늘 기숙사식당 저녁", chat.message)

	var reply model.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &reply))
	require.NotNil(t, reply.Intent)
	assert.Equal(t, string(model.IntentDormCafeteria), *reply.Intent)

	res, err = s.handleAsk(context.Background(), call(map[string]any{"user_id": "agent-1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleLastIntent(t *testing.T) {
	chat := &fakeChat{}
	s := NewServer(chat, "test", logger.NewNop())

	res, err := s.handleLastIntent(context.Background(), call(map[string]any{"user_id": "agent-2"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "agent-2", chat.userID)
	assert.JSONEq(t, `{"intent":null,"answer":"안녕하세요!"}`, resultText(t, res))

	res, err = s.handleLastIntent(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
