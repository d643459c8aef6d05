// Package deadline converts heterogeneous natural-language deadline
// expressions into a canonical YYYY-MM-DD calendar date.
package deadline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical deadline layout.
const ISODate = "2006-01-02"

type patternKind int

const (
	kindDate patternKind = iota // parse the capture with the date layouts
	kindQuarter
	kindYear
	kindISO
	kindRelative
)

type deadlinePattern struct {
	re   *regexp.Regexp
	kind patternKind
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// patterns is the fixed ordered list of deadline sub-patterns; the first
// match wins.
var patterns = []deadlinePattern{
	{regexp.MustCompile(`(?i)\bby\s+((?:` + monthNames + `)\s+\d{1,2}(?:,?\s+\d{4})?)`), kindDate},
	{regexp.MustCompile(`(?i)\bbefore\s+((?:` + monthNames + `)\s+\d{1,2}(?:,?\s+\d{4})?)`), kindDate},
	{regexp.MustCompile(`(?i)\bby\s+(Q[1-4]\s*\d{4})`), kindQuarter},
	{regexp.MustCompile(`(?i)\bby\s+(?:end\s+of\s+)?(\d{4})\b`), kindYear},
	{regexp.MustCompile(`(?i)\bin\s+(\d{4})\b`), kindYear},
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), kindISO},
	{regexp.MustCompile(`(?i)\b((?:` + monthNames + `)\s+\d{4})\b`), kindDate},
	{regexp.MustCompile(`(?i)\bby\s+end\s+of\s+(week|month|quarter|year)\b`), kindRelative},
	{regexp.MustCompile(`(?i)\b(?:this|next)\s+(week|month|quarter|year)\b`), kindRelative},
	{regexp.MustCompile(`(?i)\b(?:within|in)\s+(\d+\s+(?:days?|weeks?|months?|years?))\b`), kindRelative},
}

var (
	quarterRe  = regexp.MustCompile(`(?i)Q([1-4])\s*(\d{4})`)
	countUnits = regexp.MustCompile(`(\d+)\s+(days?|weeks?|months?|years?)`)
)

// Last calendar day of each quarter.
var quarterEnds = map[int]string{1: "03-31", 2: "06-30", 3: "09-30", 4: "12-31"}

// Bare relative units and "N units" day multipliers.
var (
	relativeDays = map[string]int{"week": 7, "month": 30, "quarter": 90, "year": 365}
	unitDays     = map[string]int{"day": 1, "week": 7, "month": 30, "year": 365}
)

// dateLayouts are tried in order for month-name captures.
var dateLayouts = []string{"January 2, 2006", "January 2 2006", "January 2", "January 2006", "2006"}

// Normalize extracts a deadline from text relative to now and returns its
// canonical YYYY-MM-DD form. When a sub-pattern matches but the capture fails
// to parse as a date, the raw captured string is returned as a best-effort
// degraded result; callers must treat a non-ISO-shaped deadline as unusable
// for chronological comparison. ok is false when no sub-pattern matched.
func Normalize(text string, now time.Time) (deadline string, ok bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])

		switch p.kind {
		case kindISO:
			return raw, true

		case kindYear:
			return raw + "-12-31", true

		case kindQuarter:
			if qm := quarterRe.FindStringSubmatch(raw); qm != nil {
				q, _ := strconv.Atoi(qm[1])
				return qm[2] + "-" + quarterEnds[q], true
			}
			return raw, true

		case kindRelative:
			return normalizeRelative(raw, now)

		case kindDate:
			return parseDate(raw, now), true
		}
	}

	return "", false
}

// normalizeRelative handles bare units ("week", "next month") and counted
// units ("30 days", "6 months").
func normalizeRelative(raw string, now time.Time) (string, bool) {
	r := strings.ToLower(raw)

	if days, found := relativeDays[r]; found {
		return now.AddDate(0, 0, days).Format(ISODate), true
	}

	if m := countUnits.FindStringSubmatch(r); m != nil {
		n, _ := strconv.Atoi(m[1])
		unit := strings.TrimSuffix(m[2], "s")
		mult, found := unitDays[unit]
		if !found {
			mult = 30
		}
		return now.AddDate(0, 0, n*mult).Format(ISODate), true
	}

	return "", false
}

// parseDate tries the fixed date layouts against a month-name capture. A date
// missing a year takes the current year, advanced one year if that date has
// already passed. A month+year with no day resolves to the first day of the
// following month (December keeps the year end). Unparseable captures come
// back raw.
func parseDate(raw string, now time.Time) string {
	// Go layout parsing is case-sensitive on month names.
	canon := canonicalizeMonths(raw)

	for _, layout := range dateLayouts {
		dt, err := time.Parse(layout, canon)
		if err != nil {
			continue
		}

		switch layout {
		case "January 2":
			dt = time.Date(now.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC)
			if dt.Before(now) {
				dt = dt.AddDate(1, 0, 0)
			}
		case "January 2006":
			if dt.Month() == time.December {
				return fmt.Sprintf("%d-12-31", dt.Year())
			}
			return fmt.Sprintf("%d-%02d-01", dt.Year(), int(dt.Month())+1)
		}

		return dt.Format(ISODate)
	}

	return raw
}

var monthRe = regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\b`)

// canonicalizeMonths title-cases month names so time.Parse accepts captures
// matched case-insensitively.
func canonicalizeMonths(s string) string {
	return monthRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
	})
}

// Comparable reports whether a stored deadline string is ISO-shaped and can
// participate in chronological comparison.
func Comparable(deadline string) bool {
	if len(deadline) < 8 {
		return false
	}
	_, err := time.Parse(ISODate, deadline)
	return err == nil
}
