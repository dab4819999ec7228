package memory

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/store"
	"maitred/internal/types"
)

// namePattern matches "for <Name>" references in raw messages. Heuristic with
// no correctness guarantee; resolution must never invent an identity when the
// match is ambiguous.
var namePattern = regexp.MustCompile(`\bfor ([A-Z][a-z]+(?: [A-Z][a-z]+)+)\b`)

// ResolveCustomer attempts to attach a customer id to a session, once per
// turn. On any failure the session is left unresolved and the turn proceeds;
// memory writes for the turn are simply skipped.
func (s *Service) ResolveCustomer(ctx context.Context, session *types.ConversationSession, rawMessage string) {
	if session.CustomerID != nil || s.disableNameResolution {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}

	name := extractNameReference(rawMessage)
	if name == "" {
		if v := session.CollectedSlots[types.SlotCustomerName]; v != "" {
			name = v
		}
	}
	if name == "" {
		logging.MemoryDebug("no name reference in message, session %s stays anonymous", session.SessionID)
		return
	}

	customer, err := s.store.LookupCustomer(name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAmbiguousCustomer):
			logging.Memory("name %q ambiguous, not resolving session %s", name, session.SessionID)
		case errors.Is(err, store.ErrCustomerNotFound):
			logging.MemoryDebug("name %q not in directory", name)
		default:
			logging.Get(logging.CategoryMemory).Warn("customer lookup failed for %q: %v", name, err)
		}
		return
	}

	session.CustomerID = &customer.ID
	logging.Memory("session %s resolved to customer %d (%s)", session.SessionID, customer.ID, customer.Name)
}

// extractNameReference pulls a capitalized full name out of a "for <Name>"
// phrase, trimming trailing words that cannot be part of a name.
func extractNameReference(message string) string {
	m := namePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	// "for 4 People" style matches are party sizes, not names.
	if name == "" || strings.ContainsAny(name, "0123456789") {
		return ""
	}
	return name
}
