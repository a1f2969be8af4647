package content

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonSlugRE   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	wordSplitRE = regexp.MustCompile(`[\s\-_]+`)
	titleCaser  = cases.Title(language.English)
)

// Stem strips the content suffix from a filename, treating .html.jinja
// as a single suffix.
func Stem(filename string) string {
	lower := strings.ToLower(filename)
	for _, suffix := range []string{".html.jinja", ".jinja", ".html", ".md"} {
		if strings.HasSuffix(lower, suffix) {
			return filename[:len(filename)-len(suffix)]
		}
	}
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}

// Slugify converts a filename stem to a URL slug, dropping any
// YYYY-MM-DD date prefix.
func Slugify(stem string) string {
	cleaned := stem
	if parts := strings.Split(cleaned, "-"); len(parts) >= 4 && allDigits(parts[:3]) {
		cleaned = strings.Join(parts[3:], "-")
	}
	cleaned = nonSlugRE.ReplaceAllString(cleaned, "-")
	cleaned = strings.ToLower(strings.Trim(cleaned, "-"))
	if cleaned == "" {
		return "index"
	}
	return cleaned
}

// Titleize derives a human-readable title from a filename: the date
// prefix and any trailing [layout] suffix are stripped, the rest is
// split on hyphens, underscores and whitespace and title cased.
func Titleize(filename string) string {
	base := Stem(filename)
	if parts := strings.Split(base, "-"); len(parts) >= 4 && allDigits(parts[:3]) {
		base = strings.Join(parts[3:], "-")
	}
	if i := strings.Index(base, "["); i >= 0 {
		base = base[:i]
	}

	words := wordSplitRE.Split(base, -1)
	titled := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		titled = append(titled, titleCaser.String(strings.ToLower(w)))
	}
	if len(titled) == 0 {
		return "Untitled"
	}
	return strings.Join(titled, " ")
}

// ExtractDateFromName parses a YYYY-MM-DD prefix from a filename stem.
// Invalid calendar dates report false; callers fall back to mtime.
func ExtractDateFromName(stem string) (time.Time, bool) {
	parts := strings.Split(stem, "-")
	if len(parts) < 3 || !allDigits(parts[:3]) {
		return time.Time{}, false
	}
	year := atoi(parts[0])
	month := atoi(parts[1])
	day := atoi(parts[2])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ExtractNumberFromName returns the leading order number from a stem
// like "01-intro" or "2024-01-15-3-notes" (number after the date).
func ExtractNumberFromName(stem string) (int, bool) {
	parts := strings.Split(stem, "-")

	if len(parts) >= 4 && allDigits(parts[:3]) {
		if isDigits(parts[3]) {
			return atoi(parts[3]), true
		}
		return 0, false
	}

	if len(parts) > 0 && isDigits(parts[0]) {
		return atoi(parts[0]), true
	}
	return 0, false
}

// StripNumberPrefix removes date and order-number prefixes from a stem
// for sorting comparisons.
func StripNumberPrefix(stem string) string {
	parts := strings.Split(stem, "-")

	switch {
	case len(parts) >= 4 && allDigits(parts[:3]):
		parts = parts[3:]
		if len(parts) > 0 && isDigits(parts[0]) {
			parts = parts[1:]
		}
	case len(parts) > 0 && isDigits(parts[0]):
		parts = parts[1:]
	}

	if len(parts) == 0 {
		return stem
	}
	return strings.Join(parts, "-")
}

func allDigits(parts []string) bool {
	for _, p := range parts {
		if !isDigits(p) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
