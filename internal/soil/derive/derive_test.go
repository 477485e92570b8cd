package derive

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

func textColumn(name string, values ...string) entity.Column {
	col := entity.Column{Name: name, Kind: entity.KindText}
	for _, v := range values {
		if v == "" {
			col.Values = append(col.Values, entity.Missing())
			continue
		}
		col.Values = append(col.Values, entity.Text(v))
	}
	return col
}

func intColumn(name string, values ...int64) entity.Column {
	col := entity.Column{Name: name, Kind: entity.KindInt}
	for _, v := range values {
		col.Values = append(col.Values, entity.Int(v))
	}
	return col
}

func TestFrequency(t *testing.T) {
	t.Parallel()

	got := Frequency(textColumn("ORDEN", "A", "A", "B", "A", "C"))
	want := entity.FrequencyDistribution{{Value: "A", Count: 3}, {Value: "B", Count: 1}, {Value: "C", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Frequency() = %v, want %v", got, want)
	}
	if got.Total() != 5 {
		t.Fatalf("Total() = %d, want 5", got.Total())
	}
}

func TestFrequencySkipsMissingAndOrdersByCount(t *testing.T) {
	t.Parallel()

	got := Frequency(textColumn("ORDEN", "Entisol", "", "Andisol", "Andisol", "", "Mollisol", "Mollisol", "Mollisol"))
	if got.Total() != 6 {
		t.Fatalf("Total() = %d, want 6", got.Total())
	}
	if !reflect.DeepEqual(got.Labels(), []string{"Mollisol", "Andisol", "Entisol"}) {
		t.Fatalf("Labels() = %v", got.Labels())
	}
}

func TestQuantileLinear(t *testing.T) {
	t.Parallel()

	sorted := []float64{1, 2, 3, 4}
	if got := Quantile(sorted, 0.25); got != 1.75 {
		t.Fatalf("Q1 = %v, want 1.75", got)
	}
	if got := Quantile(sorted, 0.5); got != 2.5 {
		t.Fatalf("median = %v, want 2.5", got)
	}
	if got := Quantile(sorted, 0.75); got != 3.25 {
		t.Fatalf("Q3 = %v, want 3.25", got)
	}
	if got := Quantile([]float64{7}, 0.25); got != 7 {
		t.Fatalf("single = %v, want 7", got)
	}
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Fatal("empty quantile should be NaN")
	}
}

func TestSummarizeOutliers(t *testing.T) {
	t.Parallel()

	g := Summarize("Andisol", []float64{10, 12, 11, 13, 12, 100})
	if len(g.Outliers) != 1 || g.Outliers[0] != 100 {
		t.Fatalf("Outliers = %v, want [100]", g.Outliers)
	}
	if g.Max != 13 || g.Min != 10 {
		t.Fatalf("whiskers = %v..%v, want 10..13", g.Min, g.Max)
	}
	if g.Count != 6 {
		t.Fatalf("Count = %d, want 6", g.Count)
	}
}

func TestBoxGroups(t *testing.T) {
	t.Parallel()

	cat := textColumn("ORDEN", "Andisol", "Entisol", "Andisol", "", "Andisol")
	num := entity.Column{Name: "ALTITUD", Kind: entity.KindInt, Values: []entity.Value{
		entity.Int(2600), entity.Int(150), entity.Missing(), entity.Int(999), entity.Int(3000),
	}}

	groups, err := BoxGroups(cat, num)
	if err != nil {
		t.Fatalf("BoxGroups() err = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("BoxGroups() len = %d, want 2", len(groups))
	}
	if groups[0].Category != "Andisol" || groups[0].Count != 2 || groups[0].Median != 2800 {
		t.Fatalf("Andisol group = %+v", groups[0])
	}
	if groups[1].Category != "Entisol" || groups[1].Count != 1 {
		t.Fatalf("Entisol group = %+v", groups[1])
	}
}

func TestBoxGroupsRejectsTextNumeric(t *testing.T) {
	t.Parallel()

	_, err := BoxGroups(textColumn("ORDEN", "A"), textColumn("ALTITUD", "alto"))
	if !errors.Is(err, ErrColumnNotNumeric) {
		t.Fatalf("BoxGroups() err = %v, want ErrColumnNotNumeric", err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cat := textColumn("ORDEN", "A", "A", "B", "A", "C")
	num := intColumn("ALTITUD", 1, 2, 3, 4, 5)
	now := time.Unix(1700000000, 0)

	set, err := Build(&cat, &num, Accuracy("", ""), now)
	if err != nil {
		t.Fatalf("Build() err = %v", err)
	}
	if set.Accuracy.Value != "70%" || set.Accuracy.Label != "accuracy" {
		t.Fatalf("Accuracy = %+v", set.Accuracy)
	}
	if !reflect.DeepEqual(set.HeatMap, [][]float64{{1, 20, 30}, {20, 1, 60}, {30, 60, 1}}) {
		t.Fatalf("HeatMap = %v", set.HeatMap)
	}
	if len(set.Boxes) != 3 || set.Frequency[0].Value != "A" {
		t.Fatalf("Build() = %+v", set)
	}

	again, err := Build(&cat, &num, Accuracy("", ""), now)
	if err != nil {
		t.Fatalf("Build() again err = %v", err)
	}
	if !reflect.DeepEqual(set, again) {
		t.Fatal("Build() is not deterministic for identical inputs")
	}

	set.HeatMap[0][0] = 99
	if HeatMap()[0][0] != 1 {
		t.Fatal("HeatMap() must return a fresh copy")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	cat := textColumn("ORDEN", "A")
	num := intColumn("ALTITUD", 1)
	empty := textColumn("ORDEN", "", "")
	emptyNum := entity.Column{Name: "ALTITUD", Kind: entity.KindFloat, Values: []entity.Value{entity.Missing(), entity.Missing()}}

	if _, err := Build(nil, &num, Accuracy("", ""), time.Now()); !errors.Is(err, ErrColumnMissing) {
		t.Fatalf("nil category err = %v", err)
	}
	if _, err := Build(&cat, nil, Accuracy("", ""), time.Now()); !errors.Is(err, ErrColumnMissing) {
		t.Fatalf("nil numeric err = %v", err)
	}
	if _, err := Build(&empty, &emptyNum, Accuracy("", ""), time.Now()); !errors.Is(err, ErrColumnEmpty) {
		t.Fatalf("empty category err = %v", err)
	}

	cat2 := textColumn("ORDEN", "A", "B")
	if _, err := Build(&cat2, &emptyNum, Accuracy("", ""), time.Now()); !errors.Is(err, ErrColumnEmpty) {
		t.Fatalf("empty numeric err = %v", err)
	}
}
