// Package specialists implements the store- and model-backed capabilities the
// dispatcher invokes: menu search, order creation, reservation booking,
// escalation, and fallback.
package specialists

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical task messages are template-assembled, so the parsers here only
// need to invert those templates plus tolerate raw customer phrasing for
// zero-requirement intents.

var (
	orderItemsPattern = regexp.MustCompile(`(?i)\border\s+(.+?)(?:\s+for\s+[A-Z]|$)`)
	namePattern       = regexp.MustCompile(`\bfor ([A-Z][a-z]+(?: [A-Z][a-z]+)+)\b`)
	partySizePattern  = regexp.MustCompile(`(?i)\bfor\s+(\d{1,3})\s+(?:people|guests|persons)\b`)
	timePattern       = regexp.MustCompile(`(?i)\bat\s+(.+)$`)
	qtyPrefixPattern  = regexp.MustCompile(`^(\d{1,2})\s+(.+)$`)
	clockPattern      = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
)

// parsedLine is one requested item before menu matching.
type parsedLine struct {
	Name     string
	Quantity int
}

// parseOrderItems splits the item phrase of a canonical order message into
// individual requested items with quantities.
func parseOrderItems(message string) []parsedLine {
	m := orderItemsPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	phrase := strings.TrimSpace(m[1])
	phrase = strings.TrimSuffix(phrase, ",")

	// "a Caesar Salad, Pan-Seared Salmon and 2 pizzas"
	raw := regexp.MustCompile(`(?i)\s*,\s*|\s+and\s+`).Split(phrase, -1)

	var lines []parsedLine
	for _, part := range raw {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "a ")
		part = strings.TrimPrefix(part, "an ")
		part = strings.TrimPrefix(part, "the ")
		if part == "" {
			continue
		}
		qty := 1
		if qm := qtyPrefixPattern.FindStringSubmatch(part); qm != nil {
			if n, err := strconv.Atoi(qm[1]); err == nil && n > 0 {
				qty = n
				part = strings.TrimSpace(qm[2])
			}
		}
		lines = append(lines, parsedLine{Name: part, Quantity: qty})
	}
	return lines
}

// parseCustomerName extracts the "for <Name>" reference, if present.
func parseCustomerName(message string) string {
	m := namePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parsePartySize extracts "for <N> people" from a reservation message.
func parsePartySize(message string) int {
	m := partySizePattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// parseDateTime extracts and normalizes the "at <when>" clause. Relative days
// resolve against now; clock times normalize to HH:MM. Unparseable fragments
// pass through untouched so the reservation still records what was asked.
func parseDateTime(message string, now time.Time) (date, timeOfDay string) {
	m := timePattern.FindStringSubmatch(message)
	if m == nil {
		return "", ""
	}
	return normalizeDateTime(strings.TrimSpace(m[1]), now)
}

func normalizeDateTime(raw string, now time.Time) (date, timeOfDay string) {
	for _, token := range strings.Fields(raw) {
		lower := strings.ToLower(strings.Trim(token, ",."))
		switch lower {
		case "today", "tonight":
			date = now.Format("2006-01-02")
			continue
		case "tomorrow":
			date = now.AddDate(0, 0, 1).Format("2006-01-02")
			continue
		case "on", "at":
			continue
		}
		if wd, ok := weekdays[lower]; ok {
			date = nextWeekday(now, wd).Format("2006-01-02")
			continue
		}
		if t, ok := normalizeClock(lower); ok {
			timeOfDay = t
			continue
		}
		if _, err := time.Parse("2006-01-02", lower); err == nil {
			date = lower
			continue
		}
	}
	if date == "" && timeOfDay == "" {
		// Keep the raw phrase rather than losing it.
		timeOfDay = raw
	}
	return date, timeOfDay
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// normalizeClock converts "7pm", "7:30pm", "19:00" to HH:MM.
func normalizeClock(token string) (string, bool) {
	m := clockPattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return "", false
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return "", false
		}
	}
	meridiem := strings.ToLower(m[3])
	if meridiem == "" && m[2] == "" {
		// A bare number is a party size or quantity, not a time.
		return "", false
	}
	if meridiem == "pm" && hour < 12 {
		hour += 12
	}
	if meridiem == "am" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
