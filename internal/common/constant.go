package common

const (
	// AuthorizationHeaderName carries the bearer access token on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// DefaultSourceLanguage and DefaultTargetLanguage are assigned to
	// lazily created user records.
	DefaultSourceLanguage = "auto"
	DefaultTargetLanguage = "Spanish"
)
