package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./forums.db"

	// DefaultMailFrom is the sender identity on outgoing emails
	DefaultMailFrom = "Cyhdev Forums <donotreply@cyhdev.com>"
)
