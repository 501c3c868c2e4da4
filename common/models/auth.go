package models

// Credentials is the body for login and register requests
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthDetail is the minimal body returned by the auth endpoints.
// Tokens themselves travel as HttpOnly cookies and never appear here.
type AuthDetail struct {
	Detail string `json:"detail"`
}
