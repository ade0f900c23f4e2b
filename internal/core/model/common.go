package model

// Log line actions
const (
	ActionOpen = "open"
	ActionLock = "lock"
)

// LineSeparator separates the fields of a usage log line and of a name table line.
const LineSeparator = ":"
