package report

type GeneralStats struct {
	TotalRequests     int64   `json:"total_requests"`
	Pending           int64   `json:"pending"`
	Authorized        int64   `json:"authorized"`
	Rejected          int64   `json:"rejected"`
	Anomalous         int64   `json:"anomalous"`
	AvgProbability    float64 `json:"avg_approval_probability"`
	AvgDaysRequested  float64 `json:"avg_days_requested"`
	AvgDaysAuthorized float64 `json:"avg_days_authorized"`
}

type CountByLabel struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	General      GeneralStats   `json:"general"`
	ByPermitType []CountByLabel `json:"by_permit_type"`
	ByDepartment []CountByLabel `json:"by_department"`
}
