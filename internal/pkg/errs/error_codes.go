/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Post and Feed Business Logic Errors
const (
	// ErrPostContentEmpty indicates that the submitted post content was empty after trimming.
	ErrPostContentEmpty = 2101

	// ErrPostContentTooLong indicates that the submitted post content exceeded the length limit.
	ErrPostContentTooLong = 2102

	// ErrPostInFlight indicates that a previous post submission is still in progress.
	ErrPostInFlight = 2103

	// ErrIdentityNotReady indicates that the display identity has not finished resolving yet.
	ErrIdentityNotReady = 2104

	// ErrFeedUnavailable indicates that the feed store could not serve the request.
	ErrFeedUnavailable = 2105
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid or incorrect.
	ErrPowChallengeInvalid = 3002

	// ErrPowChallengeInternal indicates an internal error during PoW challenge generation or validation.
	ErrPowChallengeInternal = 3003

	// ErrAlreadyLoggedIn indicates that an authenticated user attempted to register or log in again.
	ErrAlreadyLoggedIn = 3004

	// ErrInvalidUsername indicates that the supplied username does not match the required format.
	ErrInvalidUsername = 3005

	// ErrInvalidEmail indicates that the supplied email address is not valid.
	ErrInvalidEmail = 3006

	// ErrInvalidPassword indicates that the supplied password does not meet the length requirements.
	ErrInvalidPassword = 3007

	// ErrUserAlreadyExists indicates that the email or username is already taken.
	ErrUserAlreadyExists = 3008

	// ErrInvalidCredentials indicates that the email/password combination is incorrect.
	ErrInvalidCredentials = 3009

	// ErrUserNotFound indicates that the referenced user account does not exist.
	ErrUserNotFound = 3010

	// ErrUnauthorized indicates that the request requires a valid authenticated session.
	ErrUnauthorized = 3011
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
