// Package pkguid generates the service's identifiers.
//
// Sessions and correlation IDs use UUIDv7 strings; datasets use Snowflake
// IDs, exposed as decimal strings through Snowflake.AsStringID.
package pkguid
