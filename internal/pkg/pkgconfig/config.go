package pkgconfig

// Config is the read-only view of application configuration used by modules.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string
	IsSet(key string) bool
	Close() error
}

// StringOr returns the string value for key, or def when the key is unset or blank.
func StringOr(c Config, key, def string) string {
	if c == nil || !c.IsSet(key) {
		return def
	}
	if v := c.GetString(key); v != "" {
		return v
	}
	return def
}

// IntOr returns the int value for key, or def when the key is unset or not positive.
func IntOr(c Config, key string, def int64) int64 {
	if c == nil || !c.IsSet(key) {
		return def
	}
	if v := c.GetInt(key); v > 0 {
		return v
	}
	return def
}
