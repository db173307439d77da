package entity

// DashboardSummary is the scoped landing-screen summary. Every count is
// computed with the same allow-set filtering as the corresponding list.
type DashboardSummary struct {
	ActiveClients        int64            `json:"active_clients"`
	CareHomes            int64            `json:"care_homes"`
	OpenIncidents        int64            `json:"open_incidents"`
	CriticalIncidents    int64            `json:"critical_incidents"`
	ReviewsDue           int64            `json:"reviews_due"`
	ReviewsUpcoming      int64            `json:"reviews_upcoming"`
	OverdueTasks         int64            `json:"overdue_tasks"`
	IncompleteHandovers  int64            `json:"incomplete_handovers"`
	IncidentsBySeverity  map[string]int64 `json:"incidents_by_severity"`
}
