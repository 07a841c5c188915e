package common

// AuthorizationHeaderName carries the bearer access token issued by the
// identity provider.
const AuthorizationHeaderName = "Authorization"

// UserIDContextKey is the gin context key holding the authenticated user ID.
const UserIDContextKey = "user_id"
