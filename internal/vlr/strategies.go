package vlr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// The source HTML is inconsistent across eras of the site, so every
// field is extracted through an ordered list of strategies, each tried
// until one succeeds. Adding or reordering a fallback is a change to
// these tables, not to the parsing control flow.

type dateStrategy func(doc *goquery.Document) (string, bool)

type cellIntStrategy func(cell *goquery.Selection) (int, bool)

type cellTextStrategy func(cell *goquery.Selection) (string, bool)

var (
	leadingDigits = regexp.MustCompile(`^\d+`)
	deathsPattern = regexp.MustCompile(`/\s*(\d+)`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	longDateText  = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)

	mapScoreSuffix = regexp.MustCompile(`\d+:\d+.*`)
	mapPickSuffix  = regexp.MustCompile(`\s*PICK.*`)
)

var dateStrategies = []dateStrategy{
	dateFromTimestampAttr,
	dateFromHeaderText,
	dateFromDocumentText,
}

// dateFromTimestampAttr reads the machine-readable timestamp the site
// attaches for client-side timezone conversion.
func dateFromTimestampAttr(doc *goquery.Document) (string, bool) {
	ts, ok := doc.Find("div.moment-tz-convert").First().Attr("data-utc-ts")
	if !ok {
		return "", false
	}
	t, err := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(ts))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

var headerDateLayouts = []string{
	"January 2, 2006",
	"Monday, January 2",
	"January 2",
}

func dateFromHeaderText(doc *goquery.Document) (string, bool) {
	text := cleanText(doc.Find("div.moment-tz-convert").First().Text())
	if text == "" {
		return "", false
	}
	for _, layout := range headerDateLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		// layouts without a year parse into year zero
		if t.Year() == 0 {
			t = t.AddDate(time.Now().Year(), 0, 0)
		}
		return t.Format("2006-01-02"), true
	}
	return "", false
}

func dateFromDocumentText(doc *goquery.Document) (string, bool) {
	raw := longDateText.FindString(doc.Text())
	if raw == "" {
		return "", false
	}
	t, err := time.Parse("January 2, 2006", cleanText(raw))
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

var killsStrategies = []cellIntStrategy{
	statFromBothSpan,
	func(cell *goquery.Selection) (int, bool) {
		return intFromPattern(cell, leadingDigits, 0)
	},
}

var deathsStrategies = []cellIntStrategy{
	statFromBothSpan,
	func(cell *goquery.Selection) (int, bool) {
		return intFromPattern(cell, deathsPattern, 1)
	},
}

// statFromBothSpan reads the "both halves" total the site renders as a
// marker span inside each stat cell.
func statFromBothSpan(cell *goquery.Selection) (int, bool) {
	text := strings.TrimSpace(cell.Find("span.mod-both").First().Text())
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

func intFromPattern(cell *goquery.Selection, pattern *regexp.Regexp, group int) (int, bool) {
	groups := pattern.FindStringSubmatch(strings.TrimSpace(cell.Text()))
	if len(groups) <= group {
		return 0, false
	}
	n, err := strconv.Atoi(groups[group])
	if err != nil {
		return 0, false
	}
	return n, true
}

var playerNameStrategies = []cellTextStrategy{
	playerNameFromBoldDiv,
	playerNameFromCellText,
}

func playerNameFromBoldDiv(cell *goquery.Selection) (string, bool) {
	var name string
	cell.Find("div[style]").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		style, _ := div.Attr("style")
		if strings.Contains(style, "font-weight: 700") {
			name = strings.TrimSpace(div.Text())
			return false
		}
		return true
	})
	return name, name != ""
}

func playerNameFromCellText(cell *goquery.Selection) (string, bool) {
	name := cleanText(cell.Text())
	return name, name != ""
}

func firstDate(doc *goquery.Document) string {
	for _, strategy := range dateStrategies {
		if date, ok := strategy(doc); ok {
			return date
		}
	}
	return ""
}

func firstCellInt(cell *goquery.Selection, strategies []cellIntStrategy) (int, bool) {
	for _, strategy := range strategies {
		if n, ok := strategy(cell); ok {
			return n, true
		}
	}
	return 0, false
}

func firstCellText(cell *goquery.Selection, strategies []cellTextStrategy) (string, bool) {
	for _, strategy := range strategies {
		if text, ok := strategy(cell); ok {
			return text, true
		}
	}
	return "", false
}

// cleanText collapses whitespace runs into single spaces and trims.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func isNumeric(s string) bool {
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
