package client

import (
	"context"
	"testing"

	"github.com/jmaren/llmwire/providers/ai"
)

func TestSendMessageAs_ParsesFinalContent(t *testing.T) {
	type city struct {
		Name       string `json:"name"`
		Population int    `json:"population"`
	}

	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			{Content: "```json\n{\"name\":\"Lisbon\",\"population\":545000}\n```", FinishReason: ai.FinishReasonStop},
		},
	}
	c, err := New(provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := SendMessageAs[city](context.Background(), c, "describe lisbon as json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Lisbon" || got.Population != 545000 {
		t.Errorf("unexpected result: %+v", got)
	}
}
