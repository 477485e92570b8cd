package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

// naTokens mirror the usual spreadsheet/CSV spellings of a missing value.
//
//nolint:gochecknoglobals // lookup table
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

func isNA(s string) bool {
	t := strings.TrimSpace(s)
	if _, ok := naTokens[t]; ok {
		return true
	}
	return strings.EqualFold(strings.TrimPrefix(t, "-"), "nan")
}

// isNonFinite reports cells strconv reads as a number that JSON cannot
// carry, such as "inf" or "-Infinity".
func isNonFinite(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && (math.IsInf(f, 0) || math.IsNaN(f))
}

// normalizeHeader makes names unique: blanks become "Unnamed: <i>" and
// repeats become "<name>.<n>".
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	used := make(map[string]struct{}, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		base := name
		for {
			if _, taken := used[name]; !taken {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}

		used[name] = struct{}{}
		out[i] = name
	}

	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// buildTable infers one kind per column and assembles the table. Short rows
// are padded with missing cells; long rows are an error unless the extra
// cells are empty.
func buildTable(rawHeader []string, rows [][]string) (*entity.Table, error) {
	if len(rawHeader) == 0 {
		return nil, ErrNoColumns
	}

	header := normalizeHeader(rawHeader)
	width := len(header)

	cells := make([][]string, width)
	for c := range cells {
		cells[c] = make([]string, 0, len(rows))
	}

	for r, row := range rows {
		if len(row) > width && !isBlankRow(row[width:]) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrTooManyFields, r+2, len(row), width)
		}
		for c := 0; c < width; c++ {
			v := ""
			if c < len(row) {
				v = row[c]
			}
			cells[c] = append(cells[c], v)
		}
	}

	columns := make([]entity.Column, width)
	for c, name := range header {
		columns[c] = inferColumn(name, cells[c])
	}

	return entity.NewTable(columns)
}

func inferColumn(name string, raw []string) entity.Column {
	allInt, allFloat := true, true
	present := 0

	for _, s := range raw {
		if isNA(s) {
			continue
		}
		t := strings.TrimSpace(s)
		if isNonFinite(t) {
			continue
		}
		present++
		if allInt {
			if _, err := strconv.ParseInt(t, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(t, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			break
		}
	}

	kind := entity.KindText
	switch {
	case present == 0:
		kind = entity.KindFloat
	case allInt:
		kind = entity.KindInt
	case allFloat:
		kind = entity.KindFloat
	}

	values := make([]entity.Value, len(raw))
	for i, s := range raw {
		if isNA(s) {
			values[i] = entity.Missing()
			continue
		}
		t := strings.TrimSpace(s)
		if kind != entity.KindText && isNonFinite(t) {
			values[i] = entity.Missing()
			continue
		}
		switch kind {
		case entity.KindInt:
			n, _ := strconv.ParseInt(t, 10, 64)
			values[i] = entity.Int(n)
		case entity.KindFloat:
			f, _ := strconv.ParseFloat(t, 64)
			values[i] = entity.Float(f)
		default:
			values[i] = entity.Text(s)
		}
	}

	return entity.Column{Name: name, Kind: kind, Values: values}
}
