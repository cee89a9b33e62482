package enums

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// LogLevels is the space separated set accepted by config validation.
const LogLevels = LogLevelDebug + " " + LogLevelInfo + " " + LogLevelWarn + " " + LogLevelError
