package hplout

import "github.com/montanaflynn/stats"

// The highest-throughput row of a run.

type Best struct {
	Gflops  float64 `json:"gflops"`
	N       int     `json:"N"`
	NB      int     `json:"NB"`
	TimeSec float64 `json:"timeSec"`
}

// Returns nil if there are no rows.  Ties go to the earliest row.
func BestOf(runs []TimedRun) *Best {
	if len(runs) == 0 {
		return nil
	}
	best := &runs[0]
	for i := range runs {
		if runs[i].Gflops > best.Gflops {
			best = &runs[i]
		}
	}
	return &Best{
		Gflops:  best.Gflops,
		N:       best.N,
		NB:      best.NB,
		TimeSec: best.TimeSec,
	}
}

// Throughput distribution over the rows of a run.  The standard deviation is the population one.

type Stats struct {
	Count        int     `json:"count"`
	MinGflops    float64 `json:"minGflops"`
	MaxGflops    float64 `json:"maxGflops"`
	MeanGflops   float64 `json:"meanGflops"`
	MedianGflops float64 `json:"medianGflops"`
	StddevGflops float64 `json:"stddevGflops"`
}

// Returns nil if there are no rows.
func ComputeStats(runs []TimedRun) *Stats {
	if len(runs) == 0 {
		return nil
	}
	data := make(stats.Float64Data, len(runs))
	for i, r := range runs {
		data[i] = r.Gflops
	}
	// The only error from these is for empty input.
	s := &Stats{Count: len(data)}
	s.MinGflops, _ = stats.Min(data)
	s.MaxGflops, _ = stats.Max(data)
	s.MeanGflops, _ = stats.Mean(data)
	s.MedianGflops, _ = stats.Median(data)
	s.StddevGflops, _ = stats.StandardDeviation(data)
	return s
}
