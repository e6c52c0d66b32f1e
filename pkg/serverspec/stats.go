package serverspec

// Stats holds aggregate counts across every host of a report.
type Stats struct {
	Hosts    int
	Examples int
	Passed   int
	Failed   int
	Pending  int

	// FailedHosts counts hosts with at least one failed example.
	FailedHosts int
}

// ComputeStats aggregates example counts from a report.
func ComputeStats(report Report) Stats {
	var s Stats
	s.Hosts = len(report)
	for _, h := range report {
		failed := false
		for _, e := range h.Results.Examples {
			s.Examples++
			switch e.Status {
			case StatusPassed:
				s.Passed++
			case StatusFailed:
				s.Failed++
				failed = true
			case StatusPending:
				s.Pending++
			}
		}
		if failed {
			s.FailedHosts++
		}
	}
	return s
}
