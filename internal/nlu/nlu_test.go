package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/types"
)

// cannedClient returns a fixed completion or error.
type cannedClient struct {
	completion string
	err        error
	lastPrompt string
}

func (c *cannedClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.lastPrompt = prompt
	return c.completion, c.err
}

func (c *cannedClient) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.Complete(ctx, prompt)
}

func TestExtractJSON(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		got, err := extractJSON(`{"intent": "menu_inquiry"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"intent": "menu_inquiry"}`, got)
	})

	t.Run("markdown fenced", func(t *testing.T) {
		got, err := extractJSON("```json\n{\"intent\": \"other\"}\n```")
		require.NoError(t, err)
		assert.JSONEq(t, `{"intent": "other"}`, got)
	})

	t.Run("surrounded by prose", func(t *testing.T) {
		got, err := extractJSON(`Sure! Here is the result: {"a": 1} Hope that helps.`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, got)
	})

	t.Run("nested objects", func(t *testing.T) {
		got, err := extractJSON(`{"outer": {"inner": 2}}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"outer": {"inner": 2}}`, got)
	})

	t.Run("braces inside strings", func(t *testing.T) {
		got, err := extractJSON(`{"text": "use } carefully \" ok"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"text": "use } carefully \" ok"}`, got)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := extractJSON("I could not produce JSON, sorry.")
		assert.Error(t, err)
	})

	t.Run("unterminated object", func(t *testing.T) {
		_, err := extractJSON(`{"oops": `)
		assert.Error(t, err)
	})
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("parses classification", func(t *testing.T) {
		client := &cannedClient{completion: `{"intent": "Reservation_Request", "requires_escalation": false, "confidence": "high"}`}
		c := NewClassifier(client)

		got, err := c.Classify(ctx, "book a table", "no previous history")

		require.NoError(t, err)
		assert.Equal(t, "reservation_request", got.Intent)
		assert.False(t, got.RequiresEscalation)
		assert.Equal(t, types.ConfidenceHigh, got.Confidence)
	})

	t.Run("escalation flag survives parsing", func(t *testing.T) {
		client := &cannedClient{completion: `{"intent": "complaint", "requires_escalation": true, "confidence": "medium"}`}
		c := NewClassifier(client)

		got, err := c.Classify(ctx, "this is unacceptable", "no previous history")

		require.NoError(t, err)
		assert.True(t, got.RequiresEscalation)
	})

	t.Run("client failure degrades to other/low", func(t *testing.T) {
		client := &cannedClient{err: errors.New("connection refused")}
		c := NewClassifier(client)

		got, err := c.Classify(ctx, "hello", "no previous history")

		assert.Error(t, err)
		assert.Equal(t, "other", got.Intent)
		assert.Equal(t, types.ConfidenceLow, got.Confidence)
	})

	t.Run("garbage output degrades to other/low", func(t *testing.T) {
		client := &cannedClient{completion: "I have no idea."}
		c := NewClassifier(client)

		got, err := c.Classify(ctx, "hello", "no previous history")

		assert.Error(t, err)
		assert.Equal(t, "other", got.Intent)
		assert.Equal(t, types.ConfidenceLow, got.Confidence)
	})

	t.Run("unknown confidence maps to low", func(t *testing.T) {
		assert.Equal(t, types.ConfidenceLow, parseConfidence("certain"))
		assert.Equal(t, types.ConfidenceMedium, parseConfidence(" Medium "))
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes collected keys and values", func(t *testing.T) {
		client := &cannedClient{completion: `{
			"intent": "Order_Request",
			"is_ready": false,
			"missing_info": ["items"],
			"clarification_question": " What would you like? ",
			"collected_info": {" Customer_Name ": " Grace Lopez ", "items": "", "": "x"}
		}`}
		e := NewExtractor(client)

		got, err := e.Analyze(ctx, nil, "an order for Grace Lopez")

		require.NoError(t, err)
		assert.Equal(t, "order_request", got.Intent)
		assert.Equal(t, "What would you like?", got.ClarificationQuestion)
		assert.Equal(t, map[string]string{"customer_name": "Grace Lopez"}, got.CollectedInfo)
	})

	t.Run("empty intent defaults to other", func(t *testing.T) {
		client := &cannedClient{completion: `{"intent": "", "collected_info": {}}`}
		e := NewExtractor(client)

		got, err := e.Analyze(ctx, nil, "hm")

		require.NoError(t, err)
		assert.Equal(t, "other", got.Intent)
	})

	t.Run("client failure propagates", func(t *testing.T) {
		client := &cannedClient{err: errors.New("timeout")}
		e := NewExtractor(client)

		_, err := e.Analyze(ctx, nil, "hello")
		assert.Error(t, err)
	})
}

func TestFormatHistory(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, "(No previous messages)", formatHistory(nil))
	})

	t.Run("roles are labeled", func(t *testing.T) {
		got := formatHistory([]types.TurnMessage{
			{Role: types.RoleUser, Content: "a table for 4"},
			{Role: types.RoleAssistant, Content: "For what time?"},
		})
		assert.Equal(t, "Customer: a table for 4\nAssistant: For what time?", got)
	})
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("structured output preferred", func(t *testing.T) {
		client := &cannedClient{completion: `{"summary": "order placed", "text": "Your wings are on the way!"}`}
		g := NewGenerator(client)

		got, err := g.Compose(ctx, "order wings", "Order status: confirmed")

		require.NoError(t, err)
		assert.Equal(t, "order placed", got.Summary)
		assert.Equal(t, "Your wings are on the way!", got.Text)
	})

	t.Run("prose output accepted", func(t *testing.T) {
		client := &cannedClient{completion: "Your wings are on the way!"}
		g := NewGenerator(client)

		got, err := g.Escalate(ctx, "cold food", "complaint")

		require.NoError(t, err)
		assert.Equal(t, "Your wings are on the way!", got.Text)
		assert.Empty(t, got.Summary)
	})

	t.Run("empty completion errors", func(t *testing.T) {
		client := &cannedClient{completion: "   "}
		g := NewGenerator(client)

		_, err := g.Fallback(ctx, "blorp", "unclear", types.ConfidenceLow)
		assert.Error(t, err)
	})

	t.Run("client failure propagates", func(t *testing.T) {
		client := &cannedClient{err: errors.New("rate limited")}
		g := NewGenerator(client)

		_, err := g.Compose(ctx, "x", "y")
		assert.Error(t, err)
	})
}
