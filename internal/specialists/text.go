package specialists

import (
	"context"
	"fmt"

	"maitred/internal/nlu"
	"maitred/internal/types"
)

// Generator is the text-generation capability the escalation and fallback
// specialists consume.
type Generator interface {
	Escalate(ctx context.Context, message, intent string) (types.FinalText, error)
	Fallback(ctx context.Context, message, intent string, confidence types.Confidence) (types.FinalText, error)
}

var _ Generator = (*nlu.Generator)(nil)

// Escalation produces the empathetic complaint-handling reply.
type Escalation struct {
	generator Generator
}

// NewEscalation creates the escalation specialist.
func NewEscalation(g Generator) *Escalation {
	return &Escalation{generator: g}
}

// Handle generates the escalation reply. The result is final text; the
// composer passes it through unchanged.
func (e *Escalation) Handle(ctx context.Context, message string, _ types.TurnContext) (types.SpecialistResult, error) {
	text, err := e.generator.Escalate(ctx, message, "complaint")
	if err != nil {
		return types.SpecialistResult{}, fmt.Errorf("escalation: %w", err)
	}
	return types.SpecialistResult{Final: &text}, nil
}

// Fallback guides customers whose requests matched no specialist.
type Fallback struct {
	generator Generator
}

// NewFallback creates the fallback specialist.
func NewFallback(g Generator) *Fallback {
	return &Fallback{generator: g}
}

// Handle generates the fallback reply using the turn's classification.
func (f *Fallback) Handle(ctx context.Context, message string, turnCtx types.TurnContext) (types.SpecialistResult, error) {
	intent := turnCtx.Intent
	if intent == "" {
		intent = "unclear"
	}
	confidence := turnCtx.Confidence
	if confidence == "" {
		confidence = types.ConfidenceLow
	}
	text, err := f.generator.Fallback(ctx, message, intent, confidence)
	if err != nil {
		return types.SpecialistResult{}, fmt.Errorf("fallback: %w", err)
	}
	return types.SpecialistResult{Final: &text}, nil
}
