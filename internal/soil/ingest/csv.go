package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

var (
	ErrNoColumns     = errors.New("no columns to parse from file")
	ErrTooManyFields = errors.New("too many fields")
	ErrInvalidUTF8   = errors.New("file is not valid UTF-8 text")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads comma-separated UTF-8 text with the first row as header.
func ParseCSV(data []byte) (*entity.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var header []string
	var rows [][]string
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		if isBlankRow(record) {
			continue
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, ErrNoColumns
	}

	return buildTable(header, rows)
}
