package nlu

import "fmt"

// Prompt templates for the model-backed capabilities. Each asks for a single
// JSON object so the structured parsers in this package can recover it.

func classificationPrompt(message, context string) string {
	return fmt.Sprintf(`Message: %q
Context: %s

Classify intent:
- menu_inquiry: asking about menu/prices
- order_request: placing order, checking order status, or modifying order
- reservation_request: booking table, checking/modifying reservation
- general_question: policies, hours, how-to questions
- complaint: dissatisfaction or problem
- unclear: ambiguous request
- other: none of the above

Use context to resolve references like "my last order" or "make it 2".
Set requires_escalation=true for complaints, anger, or manager requests.
Set confidence: high/medium/low.

Respond with only a JSON object:
{"intent": "...", "requires_escalation": false, "confidence": "high"}
`, message, context)
}

func clarificationPrompt(history, latestMessage string) string {
	return fmt.Sprintf(`Conversation so far:
%s

Latest customer message: %q

Determine the customer's intent (menu_inquiry, order_request,
reservation_request, general_question, complaint, unclear, other) and extract
any task details they have provided across the whole conversation.

Detail keys: customer_name, items (comma-separated), party_size, date_time.

Respond with only a JSON object:
{"intent": "...", "is_ready": false, "missing_info": ["..."],
 "clarification_question": "...", "collected_info": {"key": "value"}}
`, history, latestMessage)
}

func escalationPrompt(message, intent string) string {
	return fmt.Sprintf(`Message: '%s' (flagged: %s)

Respond with empathy. Apologize if appropriate. Offer solution or compensation.
Provide manager contact. De-escalate professionally.

Respond with only a JSON object:
{"summary": "one-line summary of the complaint", "text": "the full reply to the customer"}
`, message, intent)
}

func fallbackPrompt(message, intent, confidence string) string {
	return fmt.Sprintf(`Message: '%s' (%s, %s)

Ask clarifying questions if unclear. Guide to appropriate service. Offer
menu/order/reservation options.

Respond with only a JSON object:
{"summary": "one-line summary of the request", "text": "the full reply to the customer"}
`, message, intent, confidence)
}

func composerPrompt(message, brief string) string {
	return fmt.Sprintf(`Customer: %s

Data: %s

Compose a friendly, professional response addressing the customer's request.
Include next steps.

Respond with only a JSON object:
{"summary": "brief summary of what the customer asked", "text": "the polished final response"}
`, message, brief)
}
