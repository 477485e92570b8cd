// Package pkgconfig reads service configuration.
//
// Modules depend on the Config interface; NewViper provides the YAML-file
// implementation with SOILVIZ_* environment overrides. StringOr and IntOr
// read optional keys with a fallback so modules run on an empty config.
package pkgconfig
