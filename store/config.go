package store

// Config holds configuration for the Store.
type Config struct {
	// UniqueTable is the name of the unique constraints table.
	// Default: "arbor_unique_constraints"
	UniqueTable string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UniqueTable: "arbor_unique_constraints",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.UniqueTable == "" {
		c.UniqueTable = "arbor_unique_constraints"
	}
}
