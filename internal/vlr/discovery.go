package vlr

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Match report links are numeric-id-prefixed paths; event links share
// the prefix convention but point at tournament pages, not matches.
var matchPathPattern = regexp.MustCompile(`^/\d+/`)

// MatchPageURLs lists the match report pages of a tournament. A fetch
// failure or a listing without match links yields an empty slice and
// no error: there is simply no work for this tournament.
func (c *Client) MatchPageURLs(ctx context.Context, tournamentID int) ([]string, error) {
	url := fmt.Sprintf("%s/event/matches/%d", c.baseURL, tournamentID)

	body, err := c.FetchPage(ctx, url)
	if err != nil {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse match listing of tournament %d: %w", tournamentID, err)
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !matchPathPattern.MatchString(href) {
			return
		}
		if strings.Contains(href, "/event/") {
			return
		}
		// the same match is usually linked more than once
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		urls = append(urls, c.baseURL+href)
	})

	c.logger.Info().
		Int("tournament_id", tournamentID).
		Int("matches", len(urls)).
		Msg("discovered match pages")
	return urls, nil
}
