package enums

type SessionEventType string

const (
	SessionEventSignedIn  SessionEventType = "signed_in"
	SessionEventSignedOut SessionEventType = "signed_out"
	SessionEventExpired   SessionEventType = "expired"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)
