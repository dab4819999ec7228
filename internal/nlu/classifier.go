package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// Classifier turns a raw customer message into a Classification.
type Classifier struct {
	client Client
}

// NewClassifier creates a classifier over the given client.
func NewClassifier(client Client) *Classifier {
	return &Classifier{client: client}
}

type classificationJSON struct {
	Intent             string `json:"intent"`
	RequiresEscalation bool   `json:"requires_escalation"`
	Confidence         string `json:"confidence"`
}

// Classify asks the model for the intent of a single message. The context
// summary carries per-customer memory ("no previous history" when empty).
// Failures degrade to intent "other" at low confidence rather than erroring;
// callers must still honor any escalation signal captured in this turn.
func (c *Classifier) Classify(ctx context.Context, message, contextSummary string) (types.Classification, error) {
	degraded := types.Classification{Intent: "other", Confidence: types.ConfidenceLow}

	completion, err := c.client.Complete(ctx, classificationPrompt(message, contextSummary))
	if err != nil {
		logging.Get(logging.CategoryNLU).Warn("classification failed, degrading: %v", err)
		return degraded, fmt.Errorf("classify: %w", err)
	}

	raw, err := extractJSON(completion)
	if err != nil {
		logging.Get(logging.CategoryNLU).Warn("classification output unparseable: %v", err)
		return degraded, fmt.Errorf("classify: %w", err)
	}

	var parsed classificationJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logging.Get(logging.CategoryNLU).Warn("classification JSON invalid: %v", err)
		return degraded, fmt.Errorf("classify: %w", err)
	}

	result := types.Classification{
		Intent:             strings.TrimSpace(strings.ToLower(parsed.Intent)),
		RequiresEscalation: parsed.RequiresEscalation,
		Confidence:         parseConfidence(parsed.Confidence),
	}
	if result.Intent == "" {
		result.Intent = "other"
	}

	logging.NLU("classified: intent=%s escalation=%v confidence=%s",
		result.Intent, result.RequiresEscalation, result.Confidence)
	return result, nil
}

func parseConfidence(s string) types.Confidence {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "high":
		return types.ConfidenceHigh
	case "medium":
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}
