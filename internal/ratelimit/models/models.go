// Package models holds the rate limiting result and response types.
package models

import "time"

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// ExceededResponse is the body written with 429 Too Many Requests.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Key builds the bucket key for a route class and client address.
func Key(class, clientIP string) string {
	return "ratelimit:" + class + ":" + clientIP
}
