package azure

import "fmt"

// AuthError reports an identity provider response that did not yield a token.
// Body is kept verbatim for operator diagnosis.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("azure auth failed: %d %s", e.StatusCode, e.Body)
}

// StatusError reports a non-200 response from the compute API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vm query failed: %d %s", e.StatusCode, e.Body)
}
