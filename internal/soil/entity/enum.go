package entity

type Format string

const (
	FormatUnknown     Format = "UNKNOWN"
	FormatCSV         Format = "CSV"
	FormatSpreadsheet Format = "SPREADSHEET"
)

type Encoding string

const (
	EncodingBase64 Encoding = "BASE64"
	EncodingRaw    Encoding = "RAW"
)

// ParseOutcome tags the result of ingesting one file.
type ParseOutcome string

const (
	OutcomeTable       ParseOutcome = "TABLE"
	OutcomeUnsupported ParseOutcome = "UNSUPPORTED"
	OutcomeFailed      ParseOutcome = "FAILED"
)
