package api

// AuditStats provides summary statistics over audited stage outcomes.
type AuditStats struct {
	Total            int            `json:"total"`
	UnchangedCount   int            `json:"unchanged_count"`
	TransformedCount int            `json:"transformed_count"`
	RejectedCount    int            `json:"rejected_count"`
	ErrorCount       int            `json:"error_count"`
	ByStage          map[Stage]int  `json:"by_stage"`
	ByFilter         map[string]int `json:"by_filter"`
}
