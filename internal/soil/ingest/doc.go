// Package ingest turns uploaded files into tables.
//
// An upload is decoded from its transport encoding, its format is detected
// from the filename, and the bytes are parsed into an entity.Table whose
// column kinds are inferred once. Failures never escape as Go errors from
// Parse: they become tagged entity.ParseResult values so one bad file in a
// batch cannot affect its siblings.
package ingest
