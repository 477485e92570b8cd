package entity

import "time"

// UploadedFile is one file as it arrived from the browser. Payload carries
// data-URL text when Encoding is base64; Raw carries the bytes otherwise.
type UploadedFile struct {
	Filename     string
	Encoding     Encoding
	Payload      string
	Raw          []byte
	MediaType    string
	LastModified time.Time
}

type ParseResult struct {
	Outcome ParseOutcome
	Format  Format
	Table   *Table
	Message string
	Err     error
}

func (r ParseResult) OK() bool {
	return r.Outcome == OutcomeTable && r.Table != nil
}

type Dataset struct {
	ID           string
	Filename     string
	LastModified time.Time
	UploadedAt   time.Time
	Preview      string
	Result       ParseResult

	// Snapshots of the chart input columns taken at ingestion; nil when absent.
	Category *Column
	Numeric  *Column

	Clicks int
	Charts *ChartSet
}

type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}
