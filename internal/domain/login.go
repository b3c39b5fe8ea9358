package domain

// Credentials are the username and password used for form login.
type Credentials struct {
	Username string
	Password string
}

// LoginStatus is the outcome of a login or logout attempt. Expected
// failures (bad credentials, non-200 responses) are reported here rather
// than as errors.
type LoginStatus struct {
	Success bool
	Message string
}
