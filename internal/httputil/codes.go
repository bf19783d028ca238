package httputil

// Machine-readable error codes returned in the "code" field of error
// responses. Clients branch on these instead of matching message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeUserExists         = "USER_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserBlocked        = "USER_BLOCKED"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"
	CodeInvalidUserID      = "INVALID_USER_ID"
	CodeInternalError      = "INTERNAL_ERROR"
)
