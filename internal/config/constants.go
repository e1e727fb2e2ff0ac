package config

const (
	// DefaultDatabasePath is the default path for the slot database.
	DefaultDatabasePath = "./libris.db"
)
