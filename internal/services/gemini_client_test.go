package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"wanna/pkg/wannatypes"
)

func TestGeminiClient_Basics(t *testing.T) {
	client := NewGeminiClient("key")
	assert.Equal(t, "gemini", client.GetProviderName())
	assert.True(t, client.IsConfigured())
}

func TestConvertMessagesToGemini(t *testing.T) {
	contents := convertMessagesToGemini([]wannatypes.Message{
		wannatypes.SystemMessage("prime"),
		wannatypes.UserMessage("q"),
		wannatypes.AssistantMessage("a"),
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "System: prime", contents[0].Parts[0].Text)
	assert.Equal(t, "user", contents[1].Role)
	assert.Equal(t, "model", contents[2].Role)
}

func TestConvertMessagesToGemini_Empty(t *testing.T) {
	contents := convertMessagesToGemini(nil)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestExtractGeminiText(t *testing.T) {
	assert.Equal(t, "", extractGeminiText(nil))

	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "hello "},
				{Text: "world"},
			}}},
			{Content: nil},
		},
	}
	assert.Equal(t, "hello world", extractGeminiText(result))
}
