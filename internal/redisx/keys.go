package redisx

import "time"

const (
	// Session token: token -> opaque bearer token from the last auth
	KeyToken = "token"
)

var (
	// Expiry is the backend's problem; the client keeps the token until a
	// later login/signup replaces it.
	TTLToken = time.Duration(0)
)
