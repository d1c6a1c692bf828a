package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./librarian.db"

	// DefaultSearchLocale is the collation locale used when none is configured
	DefaultSearchLocale = "pl"
)
