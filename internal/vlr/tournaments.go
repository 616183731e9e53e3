package vlr

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"vct-scorigami/internal/domain"
)

// FranchiseYears are the VCT franchise era seasons covered by the
// curated list and by discovery.
var FranchiseYears = []int{2023, 2024, 2025, 2026}

// tier1Tournaments is the manually curated registry of top-tier events,
// used when discovery is not wanted (or the year pages are unreachable).
var tier1Tournaments = []domain.Tournament{
	// 2023
	{ID: 1188, Name: "Champions Tour 2023: LOCK//IN São Paulo"},
	{ID: 1189, Name: "Champions Tour 2023: Americas League"},
	{ID: 1190, Name: "Champions Tour 2023: EMEA League"},
	{ID: 1191, Name: "Champions Tour 2023: Pacific League"},
	{ID: 1494, Name: "Champions Tour 2023: Masters Tokyo"},
	{ID: 1657, Name: "Valorant Champions 2023"},
	{ID: 1658, Name: "Champions Tour 2023: Americas Last Chance Qualifier"},
	{ID: 1659, Name: "Champions Tour 2023: EMEA Last Chance Qualifier"},
	{ID: 1660, Name: "Champions Tour 2023: Pacific Last Chance Qualifier"},
	{ID: 1664, Name: "Champions Tour 2023: Champions China Qualifier"},
	// 2024
	{ID: 1921, Name: "Champions Tour 2024: Masters Madrid"},
	{ID: 1923, Name: "Champions Tour 2024: Americas Kickoff"},
	{ID: 1924, Name: "Champions Tour 2024: Pacific Kickoff"},
	{ID: 1925, Name: "Champions Tour 2024: EMEA Kickoff"},
	{ID: 1926, Name: "Champions Tour 2024: China Kickoff"},
	{ID: 1998, Name: "Champions Tour 2024: EMEA Stage 1"},
	{ID: 1999, Name: "Champions Tour 2024: Masters Shanghai"},
	{ID: 2002, Name: "Champions Tour 2024: Pacific Stage 1"},
	{ID: 2004, Name: "Champions Tour 2024: Americas Stage 1"},
	{ID: 2005, Name: "Champions Tour 2024: Pacific Stage 2"},
	{ID: 2006, Name: "Champions Tour 2024: China Stage 1"},
	{ID: 2094, Name: "Champions Tour 2024: EMEA Stage 2"},
	{ID: 2095, Name: "Champions Tour 2024: Americas Stage 2"},
	{ID: 2096, Name: "Champions Tour 2024: China Stage 2"},
	{ID: 2097, Name: "Valorant Champions 2024"},
	// 2025
	{ID: 2274, Name: "VCT 2025: Americas Kickoff"},
	{ID: 2275, Name: "VCT 2025: China Kickoff"},
	{ID: 2276, Name: "VCT 2025: EMEA Kickoff"},
	{ID: 2277, Name: "VCT 2025: Pacific Kickoff"},
	{ID: 2281, Name: "Valorant Masters Bangkok 2025"},
	{ID: 2282, Name: "Valorant Masters Toronto 2025"},
	{ID: 2283, Name: "Valorant Champions 2025"},
	{ID: 2347, Name: "VCT 2025: Americas Stage 1"},
	{ID: 2359, Name: "VCT 2025: China Stage 1"},
	{ID: 2379, Name: "VCT 2025: Pacific Stage 1"},
	{ID: 2380, Name: "VCT 2025: EMEA Stage 1"},
	{ID: 2498, Name: "VCT 2025: EMEA Stage 2"},
	{ID: 2499, Name: "VCT 2025: China Stage 2"},
	{ID: 2500, Name: "VCT 2025: Pacific Stage 2"},
	{ID: 2501, Name: "VCT 2025: Americas Stage 2"},
	// 2026
	{ID: 2682, Name: "VCT 2026: Americas Kickoff"},
	{ID: 2683, Name: "VCT 2026: Pacific Kickoff"},
	{ID: 2684, Name: "VCT 2026: EMEA Kickoff"},
	{ID: 2685, Name: "VCT 2026: China Kickoff"},
	{ID: 2760, Name: "Valorant Masters Santiago 2026"},
	{ID: 2765, Name: "Valorant Masters London 2026"},
	{ID: 2766, Name: "Valorant Champions 2026"},
	{ID: 2775, Name: "VCT 2026: Pacific Stage 1"},
	{ID: 2776, Name: "VCT 2026: Pacific Stage 2"},
}

// KnownTournaments returns the curated tier 1 registry.
func KnownTournaments() []domain.Tournament {
	out := make([]domain.Tournament, len(tier1Tournaments))
	copy(out, tier1Tournaments)
	return out
}

// KnownTournamentIDs returns the curated ids in registry order.
func KnownTournamentIDs() []int {
	ids := make([]int, len(tier1Tournaments))
	for i, t := range tier1Tournaments {
		ids[i] = t.ID
	}
	return ids
}

var (
	eventLinkPattern   = regexp.MustCompile(`/event/(\d+)/`)
	eventStatusSuffix  = regexp.MustCompile(`(completed|ongoing|upcoming)Status.*`)
	errNoEventsForYear = fmt.Errorf("no events found")
)

// DiscoverTournaments walks the franchise-era year pages and merges
// the (id, name) pairs they link to. Year pages are independent: one
// failing year is logged and contributes nothing, the others still
// count.
func (c *Client) DiscoverTournaments(ctx context.Context) ([]domain.Tournament, error) {
	var mu sync.Mutex
	merged := make(map[int]string)

	g, gctx := errgroup.WithContext(ctx)
	for _, year := range FranchiseYears {
		g.Go(func() error {
			found, err := c.tournamentsForYear(gctx, year)
			if err != nil {
				c.logger.Warn().Err(err).Int("year", year).Msg("year discovery failed")
				return nil
			}
			mu.Lock()
			for id, name := range found {
				merged[id] = name
			}
			mu.Unlock()
			c.logger.Info().Int("year", year).Int("tournaments", len(found)).Msg("discovered tournaments")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Tournament, 0, len(merged))
	for id, name := range merged {
		out = append(out, domain.Tournament{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) tournamentsForYear(ctx context.Context, year int) (map[int]string, error) {
	url := fmt.Sprintf("%s/vct-%d", c.baseURL, year)
	body, err := c.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	found := make(map[int]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		groups := eventLinkPattern.FindStringSubmatch(href)
		if len(groups) < 2 {
			return
		}
		id, err := strconv.Atoi(groups[1])
		if err != nil {
			return
		}
		name := cleanText(eventStatusSuffix.ReplaceAllString(s.Text(), ""))
		found[id] = name
	})

	if len(found) == 0 {
		return nil, fmt.Errorf("%w for %d", errNoEventsForYear, year)
	}
	return found, nil
}
