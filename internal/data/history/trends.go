package history

import (
	"fmt"
	"math"
)

// BuildTrendReport turns a time-ordered snapshot list into per-run deltas.
func BuildTrendReport(snapshots []Snapshot) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:      current.Timestamp,
			NodeCount:      current.NodeCount,
			EdgeCount:      current.EdgeCount,
			FileCount:      current.FileCount,
			WarningCount:   current.WarningCount,
			InfoCount:      current.InfoCount,
			CycleNodeCount: current.CycleNodeCount,
			MaxTier:        current.MaxTier,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaNodes = current.NodeCount - prev.NodeCount
			point.DeltaEdges = current.EdgeCount - prev.EdgeCount
			point.DeltaWarnings = current.WarningCount - prev.WarningCount
			if prev.NodeCount > 0 {
				point.NodeGrowthPct = round2((float64(point.DeltaNodes) / float64(prev.NodeCount)) * 100)
			}
		}
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
