package pattern

// Leaderboard represents a ranked list of items by metric.
type Leaderboard struct {
	Label      string            `json:"label"`
	MetricName string            `json:"metricName"` // e.g., "Failing hosts"
	Items      []LeaderboardItem `json:"items"`
	TotalCount int               `json:"totalCount"` // total before filtering to top N
	ShowRank   bool              `json:"showRank"`
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name    string  `json:"name"`              // display name
	Metric  string  `json:"metric"`            // formatted value (e.g., "3 hosts")
	Value   float64 `json:"value"`             // numeric value for sorting
	Rank    int     `json:"rank"`              // 1-based
	Context string  `json:"context,omitempty"` // optional extra context
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
