package vlr

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vct-scorigami/internal/domain"
)

var matchIDPattern = regexp.MustCompile(`/(\d+)/`)

// ParseMatchPage extracts per-player per-map records from one match
// report page. Sections, rows or fields that cannot be resolved are
// skipped; a partially parseable page still yields whatever records
// were complete.
func ParseMatchPage(body []byte, pageURL string) (domain.MatchPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.MatchPage{}, fmt.Errorf("parse match page %s: %w", pageURL, err)
	}

	page := domain.MatchPage{
		TournamentName: extractTournamentName(doc),
		MatchDate:      firstDate(doc),
	}

	matchID := extractMatchID(pageURL)
	teams := extractTeamNames(doc)

	description := page.TournamentName
	if len(teams) >= 2 {
		description = fmt.Sprintf("%s - %s vs %s", page.TournamentName, teams[0], teams[1])
	}

	doc.Find("div.vm-stats-game").Each(func(_ int, game *goquery.Selection) {
		mapName := extractMapName(game)
		if mapName == "" {
			return
		}

		winner := determineWinner(game)

		game.Find("table.wf-table-inset").Each(func(teamIdx int, table *goquery.Selection) {
			teamName := fmt.Sprintf("Team %d", teamIdx+1)
			if teamIdx < len(teams) {
				teamName = teams[teamIdx]
			}

			result := domain.ResultTie
			if winner >= 0 {
				if teamIdx == winner {
					result = domain.ResultWin
				} else {
					result = domain.ResultLoss
				}
			}

			table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
				record, ok := extractPlayerRow(row)
				if !ok {
					return
				}
				record.Description = description
				record.Map = mapName
				record.MatchDate = page.MatchDate
				record.Result = result
				record.Team = teamName
				record.MatchID = matchID
				page.Records = append(page.Records, record)
			})
		})
	})

	return page, nil
}

// IsMatchComplete reports whether a match page describes a finished
// match. Live pages carry a status badge and no winner element.
func IsMatchComplete(body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}

	badge := strings.ToLower(doc.Find(".ml-status").First().Text())
	if strings.Contains(badge, "live") {
		return false
	}

	return doc.Find(".match-winner").Length() > 0
}

func extractMatchID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	groups := matchIDPattern.FindStringSubmatch(u.Path)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

func extractTournamentName(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find("div.match-header-event").First().Text())
	if text == "" {
		return ""
	}
	name, _, _ := strings.Cut(text, "\n")
	return cleanText(name)
}

func extractTeamNames(doc *goquery.Document) []string {
	var teams []string
	doc.Find("div.match-header-link-name").Each(func(_ int, div *goquery.Selection) {
		name := strings.TrimSpace(div.Find("a").First().Text())
		if name != "" {
			teams = append(teams, name)
		}
	})
	if len(teams) >= 2 {
		return teams
	}

	// older pages only carry the names in the generic title headers,
	// interleaved with score nodes
	doc.Find("div.wf-title-med").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		name := strings.TrimSpace(div.Text())
		if name != "" && !isNumeric(name) {
			teams = append(teams, name)
		}
		return len(teams) < 2
	})
	return teams
}

func extractMapName(game *goquery.Selection) string {
	text := strings.TrimSpace(game.Find("div.map").First().Text())
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(mapScoreSuffix.ReplaceAllString(text, ""))
	text = strings.TrimSpace(mapPickSuffix.ReplaceAllString(text, ""))
	return cleanText(text)
}

// determineWinner returns the winning team table index, or -1 when
// fewer than two scores parsed or the scores are equal.
func determineWinner(game *goquery.Selection) int {
	var scores []int
	game.Find("div.score").Each(func(_ int, div *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(div.Text()))
		if err != nil {
			return
		}
		scores = append(scores, n)
	})

	if len(scores) < 2 {
		return -1
	}
	switch {
	case scores[0] > scores[1]:
		return 0
	case scores[1] > scores[0]:
		return 1
	default:
		return -1
	}
}

// extractPlayerRow resolves one player's name, kills and deaths. Rows
// missing any of the three yield no record; a fabricated statistic is
// worse than a dropped one.
func extractPlayerRow(row *goquery.Selection) (domain.MatchRecord, bool) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return domain.MatchRecord{}, false
	}

	player, ok := firstCellText(cells.First(), playerNameStrategies)
	if !ok || isNumeric(player) {
		return domain.MatchRecord{}, false
	}

	killsCell := row.Find("td.mod-vlr-kills").First()
	if killsCell.Length() == 0 {
		return domain.MatchRecord{}, false
	}
	kills, ok := firstCellInt(killsCell, killsStrategies)
	if !ok {
		return domain.MatchRecord{}, false
	}

	deathsCell := row.Find("td.mod-vlr-deaths").First()
	if deathsCell.Length() == 0 {
		return domain.MatchRecord{}, false
	}
	deaths, ok := firstCellInt(deathsCell, deathsStrategies)
	if !ok {
		return domain.MatchRecord{}, false
	}

	return domain.MatchRecord{
		Player: player,
		Kills:  kills,
		Deaths: deaths,
	}, true
}
