package context

type contextKey string

const (
	SessionKey   contextKey = "requestSession"
	TokenKey     contextKey = "requestToken"
	RequestIDKey contextKey = "requestID"
)
