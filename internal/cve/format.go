package cve

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// NotAvailable is rendered in place of any absent field.
const NotAvailable = "N/A"

// FormatScore renders a CVSS base score in its shortest decimal form.
// A nil score is NotAvailable; a present zero renders as "0".
func FormatScore(score *float64) string {
	if score == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// FormatText renders an optional string. Nil and empty are NotAvailable.
func FormatText(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}
	return *s
}

// localeDateLayouts maps supported locales to their short numeric date layout.
//
//nolint:gochecknoglobals // Read-only lookup table.
var localeDateLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/2006",
	language.BritishEnglish:  "02/01/2006",
	language.German:          "2.1.2006",
	language.French:          "02/01/2006",
	language.Spanish:         "2/1/2006",
	language.Italian:         "2/1/2006",
	language.Dutch:           "2-1-2006",
	language.Japanese:        "2006/1/2",
	language.Chinese:         "2006/1/2",
	language.Korean:          "2006. 1. 2.",
	language.Portuguese:      "02/01/2006",
	language.Russian:         "02.01.2006",
	language.Swedish:         "2006-01-02",
}

// supportedLocales is the matcher preference order. The first entry is the
// fallback for unmatched tags.
//
//nolint:gochecknoglobals // Read-only lookup table.
var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Dutch,
	language.Japanese,
	language.Chinese,
	language.Korean,
	language.Portuguese,
	language.Russian,
	language.Swedish,
}

//nolint:gochecknoglobals // Matcher is immutable and safe for concurrent use.
var localeMatcher = language.NewMatcher(supportedLocales)

// DateFormatter renders timestamps as locale-aware short dates.
type DateFormatter struct {
	tag      language.Tag
	layout   string
	location *time.Location
}

// NewDateFormatter returns a formatter for the closest supported match of tag.
// Dates are converted to loc before formatting; nil loc means time.Local.
func NewDateFormatter(tag language.Tag, loc *time.Location) DateFormatter {
	_, idx, _ := localeMatcher.Match(tag)
	matched := supportedLocales[idx]
	if loc == nil {
		loc = time.Local
	}
	return DateFormatter{
		tag:      matched,
		layout:   localeDateLayouts[matched],
		location: loc,
	}
}

// ParseLocale parses a BCP 47 locale such as "en-US" or "de_DE".
func ParseLocale(s string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
}

// Locale returns the matched locale the formatter renders in.
func (f DateFormatter) Locale() language.Tag {
	if f.layout == "" {
		return language.AmericanEnglish
	}
	return f.tag
}

// Format renders t as a short date, or NotAvailable when t is nil. Times
// decoded without a zone keep their calendar date.
func (f DateFormatter) Format(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}
	layout := f.layout
	if layout == "" {
		layout = localeDateLayouts[language.AmericanEnglish]
	}
	if t.Location() == wallClock {
		return t.Format(layout)
	}
	loc := f.location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}
