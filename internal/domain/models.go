package domain

type Result string

const (
	ResultWin  Result = "Win"
	ResultLoss Result = "Loss"
	ResultTie  Result = "Tie"
)

// MatchRecord is one player's statistics for one map within one match.
// Records are produced by the extractor and never mutated afterwards.
type MatchRecord struct {
	Description  string `json:"description"`
	Map          string `json:"map"`
	Player       string `json:"player"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	MatchDate    string `json:"match_date,omitempty"` // ISO date, may be empty
	Result       Result `json:"result,omitempty"`
	Team         string `json:"team,omitempty"`
	TournamentID int    `json:"tournament_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
}

// MatchPage is everything extracted from a single match report page.
// Every record shares the page's tournament name and match date.
type MatchPage struct {
	Records        []MatchRecord
	TournamentName string
	MatchDate      string
}

type Tournament struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StoreStats are the aggregate counters exposed by the storage layer.
type StoreStats struct {
	TotalRecords      int `json:"total_records"`
	UniquePlayers     int `json:"unique_players"`
	UniqueMaps        int `json:"unique_maps"`
	UniqueTournaments int `json:"unique_tournaments"`
	TotalKills        int `json:"total_kills"`
	TotalDeaths       int `json:"total_deaths"`
}

func (s StoreStats) KDBalance() int {
	return s.TotalKills - s.TotalDeaths
}

// ScoreCell is one kills/deaths combination and how often it occurred.
// A count of exactly one is a scorigami.
type ScoreCell struct {
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`
	Count  int `json:"count"`
}

// IngestReport summarizes one AddBatch call.
type IngestReport struct {
	BatchID   string `json:"batch_id"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	KDBalance int    `json:"kd_balance"`
}

// RunReport summarizes one tournament's pipeline run.
type RunReport struct {
	TournamentID int `json:"tournament_id"`
	Pages        int `json:"pages"`
	Fetched      int `json:"fetched"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
	Records      int `json:"records"`
}
