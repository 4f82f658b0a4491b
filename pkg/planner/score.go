package planner

import (
	"gonum.org/v1/gonum/stat"

	"scheduleadvisor/pkg/core"
)

// Score rates a schedule in [0,1] by how evenly its unit load spreads over
// the terms: the population variance of per-term unit totals feeds
// balance = 1/(1+variance/100), scaled by the balance_workload weight
// (0.5 when absent). An empty schedule scores 0.
func Score(schedule *core.Schedule, weights map[string]float64) float64 {
	if schedule == nil || len(schedule.Terms) == 0 {
		return 0
	}

	units := make([]float64, 0, len(schedule.Terms))
	for _, term := range schedule.Terms {
		units = append(units, float64(term.TotalUnits()))
	}

	mean := stat.Mean(units, nil)
	variance := stat.MomentAbout(2, units, mean, nil)
	balance := 1 / (1 + variance/100)

	weight, ok := weights["balance_workload"]
	if !ok {
		weight = 0.5
	}

	score := balance * weight
	return min(1.0, score)
}
