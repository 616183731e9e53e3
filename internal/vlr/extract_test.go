package vlr

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vct-scorigami/internal/domain"
)

func statRow(player string, kills, deaths int) string {
	return fmt.Sprintf(`<tr>
		<td class="mod-player"><div style="font-weight: 700;">%s</div><div>team tag</div></td>
		<td class="mod-agents"></td>
		<td class="mod-stat mod-vlr-kills"><span class="mod-both">%d</span></td>
		<td class="mod-stat mod-vlr-deaths">/ <span class="mod-both">%d</span> /</td>
	</tr>`, player, kills, deaths)
}

func teamTable(rows ...string) string {
	return `<table class="wf-table-inset"><tbody>` + strings.Join(rows, "\n") + `</tbody></table>`
}

func gameSection(mapText string, scoreA, scoreB string, tables ...string) string {
	return fmt.Sprintf(`<div class="vm-stats-game">
		<div class="map"><span>%s</span></div>
		<div class="score">%s</div>
		<div class="score">%s</div>
		%s
	</div>`, mapText, scoreA, scoreB, strings.Join(tables, "\n"))
}

func matchPage(header, body string) []byte {
	return []byte(`<html><body>` + header + body + `</body></html>`)
}

func fullTeamTable(prefix string) string {
	rows := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		rows = append(rows, statRow(fmt.Sprintf("%s%d", prefix, i), 10+i, 20-i))
	}
	return teamTable(rows...)
}

const fullHeader = `
	<div class="match-header-event">Champions Tour 2024: Americas Kickoff
	Playoffs: Grand Final</div>
	<div class="moment-tz-convert" data-utc-ts="2024-02-21 17:00:00">Wednesday, February 21</div>
	<div class="match-header-link-name"><a>Sentinels</a></div>
	<div class="match-header-link-name"><a>LOUD</a></div>`

func TestParseMatchPageFullMatch(t *testing.T) {
	body := matchPage(fullHeader,
		gameSection("Ascent 47:22", "13", "2", fullTeamTable("sen"), fullTeamTable("loud"))+
			gameSection("Bind PICK", "9", "13", fullTeamTable("sen"), fullTeamTable("loud")))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/378822/sentinels-vs-loud")
	require.NoError(t, err)

	require.Equal(t, "Champions Tour 2024: Americas Kickoff", page.TournamentName)
	require.Equal(t, "2024-02-21", page.MatchDate)
	require.Len(t, page.Records, 20)

	for _, record := range page.Records {
		require.Equal(t, "378822", record.MatchID)
		require.Equal(t, "2024-02-21", record.MatchDate)
		require.Equal(t, "Champions Tour 2024: Americas Kickoff - Sentinels vs LOUD", record.Description)
	}

	byMap := map[string][]domain.MatchRecord{}
	for _, record := range page.Records {
		byMap[record.Map] = append(byMap[record.Map], record)
	}
	require.Len(t, byMap["Ascent"], 10)
	require.Len(t, byMap["Bind"], 10)

	// Ascent went 13-2 to the first table's team
	for _, record := range byMap["Ascent"] {
		switch record.Team {
		case "Sentinels":
			require.Equal(t, domain.ResultWin, record.Result)
		case "LOUD":
			require.Equal(t, domain.ResultLoss, record.Result)
		default:
			t.Fatalf("unexpected team %q", record.Team)
		}
	}
	// Bind went 9-13 the other way
	for _, record := range byMap["Bind"] {
		switch record.Team {
		case "Sentinels":
			require.Equal(t, domain.ResultLoss, record.Result)
		case "LOUD":
			require.Equal(t, domain.ResultWin, record.Result)
		}
	}

	first := byMap["Ascent"][0]
	require.Equal(t, "sen1", first.Player)
	require.Equal(t, 11, first.Kills)
	require.Equal(t, 19, first.Deaths)
}

func TestParseMatchPageTieOnEqualOrMissingScores(t *testing.T) {
	body := matchPage(fullHeader,
		gameSection("Haven", "10", "10", teamTable(statRow("alpha", 5, 5)), teamTable(statRow("bravo", 5, 5)))+
			gameSection("Split", "", "", teamTable(statRow("charlie", 7, 3)), teamTable(statRow("delta", 3, 7))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/100/a-vs-b")
	require.NoError(t, err)
	require.Len(t, page.Records, 4)
	for _, record := range page.Records {
		require.Equal(t, domain.ResultTie, record.Result)
	}
}

func TestParseMatchPageSkipsMalformedRows(t *testing.T) {
	tooFewCells := `<tr><td>orphan</td><td>1</td></tr>`
	numericPlayer := statRow("12345", 10, 10)
	noKillsCell := `<tr>
		<td class="mod-player"><div style="font-weight: 700;">ghost</div></td>
		<td></td>
		<td class="mod-stat"></td>
		<td class="mod-stat mod-vlr-deaths"><span class="mod-both">4</span></td>
	</tr>`
	unparseableKills := `<tr>
		<td class="mod-player"><div style="font-weight: 700;">blank</div></td>
		<td></td>
		<td class="mod-stat mod-vlr-kills">&nbsp;</td>
		<td class="mod-stat mod-vlr-deaths"><span class="mod-both">4</span></td>
	</tr>`

	body := matchPage(fullHeader,
		gameSection("Ascent", "13", "2",
			teamTable(tooFewCells, numericPlayer, noKillsCell, unparseableKills, statRow("survivor", 20, 14)),
			teamTable(statRow("other", 14, 20))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/101/a-vs-b")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	require.Equal(t, "survivor", page.Records[0].Player)
	require.Equal(t, 20, page.Records[0].Kills)
	require.Equal(t, 14, page.Records[0].Deaths)
}

func TestParseMatchPageSkipsUnnamedMaps(t *testing.T) {
	body := matchPage(fullHeader,
		gameSection("", "13", "2", teamTable(statRow("someone", 1, 1)))+
			gameSection("Lotus", "13", "2", teamTable(statRow("kept", 1, 1))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/102/a-vs-b")
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, "Lotus", page.Records[0].Map)
}

func TestMapNameCleanup(t *testing.T) {
	cases := map[string]string{
		"Ascent 47:22":      "Ascent",
		"Bind PICK":         "Bind",
		"Icebox 52:10 PICK": "Icebox",
		"Pearl":             "Pearl",
	}
	for raw, want := range cases {
		body := matchPage(fullHeader, gameSection(raw, "13", "2", teamTable(statRow("p", 1, 1))))
		page, err := ParseMatchPage(body, "https://www.vlr.gg/103/a-vs-b")
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		require.Equal(t, want, page.Records[0].Map)
	}
}

func TestDateFallsBackToHeaderText(t *testing.T) {
	header := `
		<div class="match-header-event">VCT 2025: Pacific Stage 1</div>
		<div class="moment-tz-convert">March 5</div>
		<div class="match-header-link-name"><a>DRX</a></div>
		<div class="match-header-link-name"><a>T1</a></div>`
	body := matchPage(header, gameSection("Ascent", "13", "2", teamTable(statRow("p", 1, 1))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/104/a-vs-b")
	require.NoError(t, err)

	want := fmt.Sprintf("%d-03-05", time.Now().Year())
	require.Equal(t, want, page.MatchDate)
}

func TestDateFallsBackToDocumentText(t *testing.T) {
	header := `
		<div class="match-header-event">VCT 2023: EMEA League</div>
		<p>Matchup played on June 14, 2023 in the league stage.</p>`
	body := matchPage(header, gameSection("Ascent", "13", "2", teamTable(statRow("p", 1, 1))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/105/a-vs-b")
	require.NoError(t, err)
	require.Equal(t, "2023-06-14", page.MatchDate)
}

func TestTeamNamesFallBackToTitleHeaders(t *testing.T) {
	header := `
		<div class="match-header-event">VCT 2023: LOCK//IN</div>
		<div class="wf-title-med">Fnatic</div>
		<div class="wf-title-med">13</div>
		<div class="wf-title-med">NAVI</div>`
	body := matchPage(header,
		gameSection("Fracture", "13", "7", teamTable(statRow("alpha", 9, 9)), teamTable(statRow("bravo", 9, 9))))

	page, err := ParseMatchPage(body, "https://www.vlr.gg/106/fnatic-vs-navi")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	require.Equal(t, "Fnatic", page.Records[0].Team)
	require.Equal(t, "VCT 2023: LOCK//IN - Fnatic vs NAVI", page.Records[0].Description)
}

func TestExtractMatchID(t *testing.T) {
	cases := map[string]string{
		"https://www.vlr.gg/378822/sentinels-vs-loud": "378822",
		"https://www.vlr.gg/1/short/":                 "1",
		"https://www.vlr.gg/no-id-here":               "",
		"://bad":                                      "",
	}
	for pageURL, want := range cases {
		require.Equal(t, want, extractMatchID(pageURL), pageURL)
	}
}

func TestIsMatchComplete(t *testing.T) {
	live := []byte(`<html><body><div class="ml-status">LIVE</div></body></html>`)
	require.False(t, IsMatchComplete(live))

	finished := []byte(`<html><body><div class="ml-status">final</div><div class="match-winner">Sentinels</div></body></html>`)
	require.True(t, IsMatchComplete(finished))

	upcoming := []byte(`<html><body><div class="ml-status">Upcoming</div></body></html>`)
	require.False(t, IsMatchComplete(upcoming))
}
