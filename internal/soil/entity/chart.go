package entity

import "time"

type CategoryCount struct {
	Value string
	Count int
}

// FrequencyDistribution is ordered by descending count.
type FrequencyDistribution []CategoryCount

func (d FrequencyDistribution) Total() int {
	total := 0
	for _, c := range d {
		total += c.Count
	}
	return total
}

func (d FrequencyDistribution) Labels() []string {
	out := make([]string, len(d))
	for i, c := range d {
		out[i] = c.Value
	}
	return out
}

// BoxGroup summarizes the numeric values of one category. Min and Max are
// the whisker ends, i.e. the most extreme values inside the fences.
type BoxGroup struct {
	Category   string
	Count      int
	Min        float64
	Q1         float64
	Median     float64
	Q3         float64
	Max        float64
	LowerFence float64
	UpperFence float64
	Outliers   []float64
}

type AccuracyPanel struct {
	Value string
	Label string
}

type ChartSet struct {
	CategoryColumn string
	NumericColumn  string
	Frequency      FrequencyDistribution
	Boxes          []BoxGroup
	HeatMap        [][]float64
	Accuracy       AccuracyPanel
	GeneratedAt    time.Time
}
