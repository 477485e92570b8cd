// Package derive computes chart inputs from the stashed dataset columns.
package derive

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

var (
	ErrColumnMissing    = errors.New("required column is missing")
	ErrColumnEmpty      = errors.New("required column has no values")
	ErrColumnNotNumeric = errors.New("column is not numeric")
	ErrLengthMismatch   = errors.New("category and numeric columns differ in length")
)

const (
	DefaultAccuracyValue = "70%"
	DefaultAccuracyLabel = "accuracy"
)

// heatMap is a fixed illustrative matrix; it does not depend on the data.
//
//nolint:gochecknoglobals // fixed placeholder values
var heatMap = [][]float64{
	{1, 20, 30},
	{20, 1, 60},
	{30, 60, 1},
}

// Frequency counts distinct non-missing values in descending order of count.
// Ties keep the order in which values first appear.
func Frequency(col entity.Column) entity.FrequencyDistribution {
	index := make(map[string]int)
	var dist entity.FrequencyDistribution

	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		key := v.String()
		if i, ok := index[key]; ok {
			dist[i].Count++
			continue
		}
		index[key] = len(dist)
		dist = append(dist, entity.CategoryCount{Value: key, Count: 1})
	}

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})

	return dist
}

// BoxGroups summarizes numeric values per category, in frequency order.
// Rows with a missing category or numeric cell are skipped.
func BoxGroups(category, numeric entity.Column) ([]entity.BoxGroup, error) {
	if !numeric.Kind.Numeric() {
		return nil, fmt.Errorf("%w: %q is %s", ErrColumnNotNumeric, numeric.Name, numeric.Kind)
	}
	if category.Len() != numeric.Len() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, category.Len(), numeric.Len())
	}

	values := make(map[string][]float64)
	for i, c := range category.Values {
		if c.IsMissing() {
			continue
		}
		n, ok := numeric.Values[i].Number()
		if !ok {
			continue
		}
		key := c.String()
		values[key] = append(values[key], n)
	}

	groups := make([]entity.BoxGroup, 0, len(values))
	for _, cc := range Frequency(category) {
		vs, ok := values[cc.Value]
		if !ok {
			continue
		}
		groups = append(groups, Summarize(cc.Value, vs))
	}

	return groups, nil
}

// Summarize computes a Tukey box for values. Quartiles use linear
// interpolation between closest ranks; whiskers reach the most extreme
// values within 1.5 IQR of the box.
func Summarize(name string, values []float64) entity.BoxGroup {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	g := entity.BoxGroup{Category: name, Count: len(sorted)}
	if len(sorted) == 0 {
		return g
	}

	g.Q1 = Quantile(sorted, 0.25)
	g.Median = Quantile(sorted, 0.5)
	g.Q3 = Quantile(sorted, 0.75)

	iqr := g.Q3 - g.Q1
	g.LowerFence = g.Q1 - 1.5*iqr
	g.UpperFence = g.Q3 + 1.5*iqr

	g.Min, g.Max = math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < g.LowerFence || v > g.UpperFence {
			g.Outliers = append(g.Outliers, v)
			continue
		}
		g.Min = math.Min(g.Min, v)
		g.Max = math.Max(g.Max, v)
	}

	return g
}

// Quantile returns the q-th quantile of sorted values using linear interpolation.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// HeatMap returns a fresh copy of the fixed heat map matrix.
func HeatMap() [][]float64 {
	out := make([][]float64, len(heatMap))
	for i, row := range heatMap {
		out[i] = slices.Clone(row)
	}
	return out
}

// Accuracy returns the static accuracy panel, falling back to the defaults.
func Accuracy(value, label string) entity.AccuracyPanel {
	if value == "" {
		value = DefaultAccuracyValue
	}
	if label == "" {
		label = DefaultAccuracyLabel
	}
	return entity.AccuracyPanel{Value: value, Label: label}
}

// Build regenerates every chart input from the stashed columns.
func Build(category, numeric *entity.Column, accuracy entity.AccuracyPanel, now time.Time) (entity.ChartSet, error) {
	if category == nil {
		return entity.ChartSet{}, fmt.Errorf("%w: category", ErrColumnMissing)
	}
	if numeric == nil {
		return entity.ChartSet{}, fmt.Errorf("%w: numeric", ErrColumnMissing)
	}

	freq := Frequency(*category)
	if len(freq) == 0 {
		return entity.ChartSet{}, fmt.Errorf("%w: %q", ErrColumnEmpty, category.Name)
	}

	boxes, err := BoxGroups(*category, *numeric)
	if err != nil {
		return entity.ChartSet{}, err
	}
	if len(boxes) == 0 {
		return entity.ChartSet{}, fmt.Errorf("%w: %q", ErrColumnEmpty, numeric.Name)
	}

	return entity.ChartSet{
		CategoryColumn: category.Name,
		NumericColumn:  numeric.Name,
		Frequency:      freq,
		Boxes:          boxes,
		HeatMap:        HeatMap(),
		Accuracy:       accuracy,
		GeneratedAt:    now,
	}, nil
}
