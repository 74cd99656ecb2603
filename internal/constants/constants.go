package constants

const (
	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "task_session"

	// ContextKeyUserID is the session and gin-context key for the authenticated user ID.
	ContextKeyUserID = "user_id"

	// ContextKeyCurrentUser is the gin-context key for the user row loaded by RequireAdmin.
	ContextKeyCurrentUser = "current_user"

	// SessionMaxAge is the fixed session lifetime in seconds (24 hours, no sliding renewal).
	SessionMaxAge = 86400

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 8
)
