package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
)

var ErrLegacyWorkbook = errors.New("unreadable legacy workbook")

//nolint:gochecknoglobals // file signature
var compoundSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

const (
	compoundHeaderSize = 512
	compoundEndOfChain = 0xFFFFFFFE
)

func isCompoundFile(data []byte) bool {
	return bytes.HasPrefix(data, compoundSignature)
}

// readLegacyRows returns the cells of the first sheet of a BIFF workbook.
func readLegacyRows(data []byte) (rows [][]string, err error) {
	data, err = checkCompoundFile(data)
	if err != nil {
		return nil, err
	}

	// The BIFF reader indexes records without bounds checks.
	defer func() {
		if rvr := recover(); rvr != nil {
			rows, err = nil, fmt.Errorf("%w: %v", ErrLegacyWorkbook, rvr)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLegacyWorkbook, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrLegacyWorkbook)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}
	if sheet.MaxRow > 0 {
		return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
	}

	row := rowAt(sheet, 0)
	if row == nil {
		return nil, nil
	}
	header := make([]string, 0, row.LastCol())
	for c := 0; c < row.LastCol(); c++ {
		header = append(header, row.Col(c))
	}
	return [][]string{header}, nil
}

// rowAt returns nil for rows the sheet never stored.
func rowAt(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// checkCompoundFile walks the container and its workbook stream with
// bounds-checked reads before the BIFF reader sees it, since that reader
// exits the process on a broken sector chain. It returns the data with the
// DIFAT start normalized to end-of-chain when no DIFAT sectors exist.
func checkCompoundFile(data []byte) ([]byte, error) {
	if len(data) < compoundHeaderSize {
		return nil, fmt.Errorf("%w: truncated header", ErrLegacyWorkbook)
	}
	if shift := binary.LittleEndian.Uint16(data[30:32]); shift != 9 {
		return nil, fmt.Errorf("%w: unsupported sector shift %d", ErrLegacyWorkbook, shift)
	}

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLegacyWorkbook, err)
	}

	found := false
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		if _, err := io.Copy(io.Discard, entry); err != nil {
			return nil, fmt.Errorf("%w: read %s stream: %w", ErrLegacyWorkbook, entry.Name, err)
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: no workbook stream", ErrLegacyWorkbook)
	}

	difatStart := binary.LittleEndian.Uint32(data[68:72])
	difatCount := binary.LittleEndian.Uint32(data[72:76])
	if difatCount == 0 {
		if difatStart == compoundEndOfChain {
			return data, nil
		}
		out := bytes.Clone(data)
		binary.LittleEndian.PutUint32(out[68:72], compoundEndOfChain)
		return out, nil
	}

	sid := difatStart
	for i := uint32(0); i < difatCount; i++ {
		off := int64(sid+1) * compoundHeaderSize
		if sid >= compoundEndOfChain-4 || off+compoundHeaderSize > int64(len(data)) {
			return nil, fmt.Errorf("%w: DIFAT sector %d out of range", ErrLegacyWorkbook, sid)
		}
		sid = binary.LittleEndian.Uint32(data[off+compoundHeaderSize-4 : off+compoundHeaderSize])
	}
	if sid != compoundEndOfChain {
		return nil, fmt.Errorf("%w: DIFAT chain does not terminate", ErrLegacyWorkbook)
	}

	return data, nil
}
