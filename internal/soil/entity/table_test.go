package entity

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewTableValidates(t *testing.T) {
	t.Parallel()

	_, err := NewTable([]Column{
		{Name: "ORDEN", Kind: KindText, Values: []Value{Text("Andisol")}},
		{Name: "ORDEN", Kind: KindText, Values: []Value{Text("Entisol")}},
	})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("NewTable() duplicate err = %v, want ErrDuplicateColumn", err)
	}

	_, err = NewTable([]Column{
		{Name: "ORDEN", Kind: KindText, Values: []Value{Text("Andisol"), Text("Entisol")}},
		{Name: "ALTITUD", Kind: KindInt, Values: []Value{Int(2600)}},
	})
	if !errors.Is(err, ErrRaggedTable) {
		t.Fatalf("NewTable() ragged err = %v, want ErrRaggedTable", err)
	}

	_, err = NewTable([]Column{
		{Name: "ALTITUD", Kind: KindInt, Values: []Value{Int(2600), Text("alto")}},
	})
	if !errors.Is(err, ErrMixedColumn) {
		t.Fatalf("NewTable() mixed err = %v, want ErrMixedColumn", err)
	}
}

func TestTableAccessors(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable([]Column{
		{Name: "ORDEN", Kind: KindText, Values: []Value{Text("Andisol"), Text("Entisol"), Missing()}},
		{Name: "ALTITUD", Kind: KindInt, Values: []Value{Int(2600), Missing(), Int(120)}},
		{Name: "PH", Kind: KindFloat, Values: []Value{Float(5.5), Float(6), Float(7.25)}},
	})
	if err != nil {
		t.Fatalf("NewTable() err = %v", err)
	}

	if tbl.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", tbl.Rows())
	}
	if got := tbl.Headers(); !reflect.DeepEqual(got, []string{"ORDEN", "ALTITUD", "PH"}) {
		t.Fatalf("Headers() = %v", got)
	}
	if _, ok := tbl.Column("REGIMEN_HUMEDAD"); ok {
		t.Fatal("Column() expected missing column")
	}

	recs := tbl.Records(1, 15)
	if len(recs) != 2 {
		t.Fatalf("Records() len = %d, want 2", len(recs))
	}
	if recs[0]["ALTITUD"] != nil || recs[0]["ORDEN"] != "Entisol" || recs[0]["PH"] != float64(6) {
		t.Fatalf("Records()[0] = %v", recs[0])
	}
	if got := tbl.Records(5, 15); len(got) != 0 {
		t.Fatalf("Records() past end len = %d, want 0", len(got))
	}

	cells := tbl.Cells(0, 1)
	if !reflect.DeepEqual(cells, [][]string{{"Andisol", "2600", "5.5"}}) {
		t.Fatalf("Cells() = %v", cells)
	}
}

func TestColumnCloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	col := Column{Name: "ORDEN", Kind: KindText, Values: []Value{Text("Andisol")}}
	clone := col.Clone()
	clone.Values[0] = Text("Mollisol")

	if col.Values[0].Text() != "Andisol" {
		t.Fatalf("Clone() aliased the original values")
	}
}

func TestValueNumber(t *testing.T) {
	t.Parallel()

	if n, ok := Int(3).Number(); !ok || n != 3 {
		t.Fatalf("Int.Number() = %v, %v", n, ok)
	}
	if n, ok := Float(2.5).Number(); !ok || n != 2.5 {
		t.Fatalf("Float.Number() = %v, %v", n, ok)
	}
	if _, ok := Text("x").Number(); ok {
		t.Fatal("Text.Number() expected not numeric")
	}
	if !Missing().IsMissing() || Missing().String() != "" {
		t.Fatal("Missing() should be missing and render empty")
	}
}
