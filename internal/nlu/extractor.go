package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// Analysis is the extraction capability's best-effort read of a conversation:
// what the customer wants, which task details they have supplied so far, and
// what is still missing.
type Analysis struct {
	Intent                string
	IsReady               bool
	MissingInfo           []string
	ClarificationQuestion string
	CollectedInfo         map[string]string
}

// Extractor asks the model to analyze a conversation for clarification.
type Extractor struct {
	client Client
}

// NewExtractor creates an extractor over the given client.
func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client}
}

type analysisJSON struct {
	Intent                string            `json:"intent"`
	IsReady               bool              `json:"is_ready"`
	MissingInfo           []string          `json:"missing_info"`
	ClarificationQuestion string            `json:"clarification_question"`
	CollectedInfo         map[string]string `json:"collected_info"`
}

// Analyze extracts intent and task details from the conversation history plus
// the latest message. The slot engine treats the result as advisory: it
// recomputes readiness against the slot schema itself.
func (e *Extractor) Analyze(ctx context.Context, history []types.TurnMessage, latestMessage string) (Analysis, error) {
	completion, err := e.client.Complete(ctx, clarificationPrompt(formatHistory(history), latestMessage))
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	raw, err := extractJSON(completion)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	var parsed analysisJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Analysis{}, fmt.Errorf("analyze: %w", err)
	}

	analysis := Analysis{
		Intent:                strings.TrimSpace(strings.ToLower(parsed.Intent)),
		IsReady:               parsed.IsReady,
		MissingInfo:           parsed.MissingInfo,
		ClarificationQuestion: strings.TrimSpace(parsed.ClarificationQuestion),
		CollectedInfo:         make(map[string]string, len(parsed.CollectedInfo)),
	}
	if analysis.Intent == "" {
		analysis.Intent = "other"
	}
	for k, v := range parsed.CollectedInfo {
		k = strings.TrimSpace(strings.ToLower(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			analysis.CollectedInfo[k] = v
		}
	}

	logging.NLUDebug("analysis: intent=%s ready=%v collected=%d missing=%d",
		analysis.Intent, analysis.IsReady, len(analysis.CollectedInfo), len(analysis.MissingInfo))
	return analysis, nil
}

// formatHistory renders turn history the way the clarification prompt expects.
func formatHistory(history []types.TurnMessage) string {
	if len(history) == 0 {
		return "(No previous messages)"
	}
	var b strings.Builder
	for _, msg := range history {
		role := "Customer"
		if msg.Role == types.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
