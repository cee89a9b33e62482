package middleware

const (
	SessionHeader   = "Session"
	Authorization   = "Authorization"
	RequestIDHeader = "X-Request-ID"
	BearerPrefix    = "Bearer "

	// Echo context keys.
	TokenKey      = "requestToken"
	JWTSessionKey = "jwtSession"
	RequestIDKey  = "requestID"
)
