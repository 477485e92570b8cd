package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

var ErrNoSheets = errors.New("workbook has no sheets")

// ParseSpreadsheet reads the first sheet of a workbook with the first
// non-blank row as header. OOXML workbooks (.xlsx) and BIFF workbooks (.xls,
// detected by their compound file signature) are both accepted.
func ParseSpreadsheet(data []byte) (*entity.Table, error) {
	var (
		all [][]string
		err error
	)
	if isCompoundFile(data) {
		all, err = readLegacyRows(data)
	} else {
		all, err = readWorkbookRows(data)
	}
	if err != nil {
		return nil, err
	}

	var header []string
	rows := make([][]string, 0, len(all))
	for _, row := range all {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}

	if header == nil {
		return nil, ErrNoColumns
	}

	return buildTable(header, rows)
}

// readWorkbookRows reads cells as raw values so numbers are not passed
// through the sheet's display format.
func readWorkbookRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	all, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return all, nil
}
