/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Post and Feed Business Logic Errors
	ErrPostContentEmpty:   {Code: ErrPostContentEmpty, Message: "Post content cannot be empty."},
	ErrPostContentTooLong: {Code: ErrPostContentTooLong, Message: "Post is limited to %d characters."},
	ErrPostInFlight:       {Code: ErrPostInFlight, Message: "Your previous post is still being published."},
	ErrIdentityNotReady:   {Code: ErrIdentityNotReady, Message: "Please wait for your profile to load."},
	ErrFeedUnavailable:    {Code: ErrFeedUnavailable, Message: "The feed is temporarily unavailable. Please try again.", Status: http.StatusServiceUnavailable},

	// 3xxx: User, Session, and Security Errors
	ErrPowChallengeRequired: {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again."},
	ErrPowChallengeInvalid:  {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again."},
	ErrPowChallengeInternal: {Code: ErrPowChallengeInternal, Message: "Verification service error. Please try again later."},
	ErrAlreadyLoggedIn:      {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUsername:      {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidEmail:         {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:      {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:    {Code: ErrUserAlreadyExists, Message: "An account with this email or username already exists."},
	ErrInvalidCredentials:   {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUserNotFound:         {Code: ErrUserNotFound, Message: "Account not found."},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
