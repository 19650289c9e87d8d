package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, invalid config)
	ExitDataError   = 3 // Catalog could not be loaded (missing, malformed, inconsistent)
	ExitNoResults   = 4 // Title not found or no title matches the genres
)
