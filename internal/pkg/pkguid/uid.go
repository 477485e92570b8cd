package pkguid

// StringID generates unique string identifiers.
type StringID interface {
	// Generate generates a unique identifier as a string.
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	// Generate generates a unique identifier as an int64.
	Generate() int64
}

var (
	_ StringID = (*UUID)(nil)
	_ StringID = snowflakeString{}
	_ NumberID = (*Snowflake)(nil)
)
