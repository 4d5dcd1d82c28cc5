package sqlite

// Config holds SQLite document store settings
type Config struct {
	// Path is the database file path. ":memory:" is not supported since
	// every connection would see a different database.
	Path string

	// BusyTimeoutMillis is how long a writer waits on a locked database
	BusyTimeoutMillis int
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path:              "trivia.db",
		BusyTimeoutMillis: 5000,
	}
}
