package specialists

import (
	"context"
	"fmt"
	"strings"

	"maitred/internal/logging"
	"maitred/internal/store"
	"maitred/internal/types"
)

// MenuStore is the slice of the record store the menu specialist needs.
type MenuStore interface {
	SearchMenu(query string, availableOnly bool, limit int) ([]store.MenuItem, error)
}

// Menu answers menu inquiries from the database. Never guesses prices.
type Menu struct {
	store MenuStore
}

// NewMenu creates the menu specialist.
func NewMenu(s MenuStore) *Menu {
	return &Menu{store: s}
}

// stopWords are dropped before keyword search; what remains of the customer's
// question is matched against dish names, categories, and descriptions.
var stopWords = map[string]bool{
	"what": true, "whats": true, "which": true, "do": true, "does": true,
	"you": true, "your": true, "have": true, "got": true, "any": true,
	"are": true, "is": true, "the": true, "a": true, "an": true, "of": true,
	"on": true, "in": true, "for": true, "me": true, "i": true, "we": true,
	"can": true, "there": true, "show": true, "tell": true, "about": true,
	"menu": true, "options": true, "option": true, "how": true, "much": true,
	"want": true, "like": true, "would": true, "to": true, "see": true,
	"please": true, "some": true, "and": true, "or": true, "with": true,
}

// Handle searches the menu for the inquiry's keywords and returns matching
// items with prices.
func (m *Menu) Handle(ctx context.Context, message string, _ types.TurnContext) (types.SpecialistResult, error) {
	if err := ctx.Err(); err != nil {
		return types.SpecialistResult{}, err
	}

	seen := make(map[int64]bool)
	result := &types.MenuResult{Items: []string{}, Prices: []float64{}}

	add := func(items []store.MenuItem) {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			result.Items = append(result.Items, item.Name)
			result.Prices = append(result.Prices, item.Price)
		}
	}

	keywords := menuKeywords(message)
	for _, kw := range keywords {
		items, err := m.store.SearchMenu(kw, true, 10)
		if err != nil {
			return types.SpecialistResult{}, fmt.Errorf("menu search: %w", err)
		}
		add(items)
	}

	// A question with no usable keywords ("what's on the menu?") lists the
	// available menu.
	if len(keywords) == 0 || len(result.Items) == 0 {
		items, err := m.store.SearchMenu("", true, 10)
		if err != nil {
			return types.SpecialistResult{}, fmt.Errorf("menu search: %w", err)
		}
		add(items)
	}

	logging.Dispatch("menu specialist: keywords=%v matches=%d", keywords, len(result.Items))
	return types.SpecialistResult{Menu: result}, nil
}

// menuKeywords extracts the salient search terms from a menu question,
// including naive singular forms so "desserts" matches the Desserts category
// and dish descriptions alike.
func menuKeywords(message string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == ' ' || r == '-' {
			return r
		}
		return ' '
	}, message)

	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		lower := strings.ToLower(word)
		if len(lower) < 3 || stopWords[lower] {
			continue
		}
		keywords = append(keywords, lower)
		if strings.HasSuffix(lower, "s") && len(lower) > 3 {
			keywords = append(keywords, strings.TrimSuffix(lower, "s"))
		}
	}
	return keywords
}
