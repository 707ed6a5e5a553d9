package history

import "time"

const SchemaVersion = 1

// Snapshot is one recorded analysis run, reduced to trend-worthy counts.
type Snapshot struct {
	ProjectKey     string    `json:"project_key,omitempty"`
	SchemaVersion  int       `json:"schema_version"`
	Timestamp      time.Time `json:"timestamp"`
	NodeCount      int       `json:"node_count"`
	EdgeCount      int       `json:"edge_count"`
	GroupCount     int       `json:"group_count"`
	FileCount      int       `json:"file_count"`
	WarningCount   int       `json:"warning_count"`
	InfoCount      int       `json:"info_count"`
	CycleNodeCount int       `json:"cycle_node_count"`
	MaxTier        int       `json:"max_tier"`
}

type TrendPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	NodeCount      int       `json:"node_count"`
	EdgeCount      int       `json:"edge_count"`
	FileCount      int       `json:"file_count"`
	WarningCount   int       `json:"warning_count"`
	InfoCount      int       `json:"info_count"`
	CycleNodeCount int       `json:"cycle_node_count"`
	MaxTier        int       `json:"max_tier"`
	DeltaNodes     int       `json:"delta_nodes"`
	DeltaEdges     int       `json:"delta_edges"`
	DeltaWarnings  int       `json:"delta_warnings"`
	NodeGrowthPct  float64   `json:"node_growth_pct"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
