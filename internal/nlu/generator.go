package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// Generator produces customer-facing text: escalation replies, fallback
// replies, and the final composed response.
type Generator struct {
	client Client
}

// NewGenerator creates a generator over the given client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

type finalTextJSON struct {
	Summary string `json:"summary"`
	Text    string `json:"text"`
}

// Compose polishes a specialist brief into the final customer response.
func (g *Generator) Compose(ctx context.Context, message, brief string) (types.FinalResponse, error) {
	summary, text, err := g.generate(ctx, composerPrompt(message, brief))
	if err != nil {
		return types.FinalResponse{}, fmt.Errorf("compose: %w", err)
	}
	return types.FinalResponse{Summary: summary, Text: text}, nil
}

// Escalate produces the complaint-handling reply.
func (g *Generator) Escalate(ctx context.Context, message, intent string) (types.FinalText, error) {
	summary, text, err := g.generate(ctx, escalationPrompt(message, intent))
	if err != nil {
		return types.FinalText{}, fmt.Errorf("escalate: %w", err)
	}
	return types.FinalText{Summary: summary, Text: text}, nil
}

// Fallback produces the generic-guidance reply for unrecognized requests.
func (g *Generator) Fallback(ctx context.Context, message, intent string, confidence types.Confidence) (types.FinalText, error) {
	summary, text, err := g.generate(ctx, fallbackPrompt(message, intent, string(confidence)))
	if err != nil {
		return types.FinalText{}, fmt.Errorf("fallback: %w", err)
	}
	return types.FinalText{Summary: summary, Text: text}, nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (summary, text string, err error) {
	completion, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", "", err
	}

	// Structured output preferred; plain prose accepted. A model that answers
	// in prose still produced a usable customer reply.
	if raw, jerr := extractJSON(completion); jerr == nil {
		var parsed finalTextJSON
		if json.Unmarshal([]byte(raw), &parsed) == nil && strings.TrimSpace(parsed.Text) != "" {
			return strings.TrimSpace(parsed.Summary), strings.TrimSpace(parsed.Text), nil
		}
	}

	text = strings.TrimSpace(completion)
	if text == "" {
		return "", "", fmt.Errorf("empty completion")
	}
	logging.NLUDebug("generator fell back to prose output (%d chars)", len(text))
	return "", text, nil
}
