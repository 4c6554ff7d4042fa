package models

// Result is the outcome of validating a claim set.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Accepted builds a positive result. Non-fatal errors may still be attached.
func Accepted(warnings ...ValidationError) Result {
	return Result{Valid: true, Errors: warnings}
}

// Rejected builds a negative result carrying at least one error.
func Rejected(errs ...ValidationError) Result {
	return Result{Valid: false, Errors: errs}
}

// HasCode reports whether any recorded error carries the code.
func (r Result) HasCode(code ErrorCode) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// ClaimErrors returns the errors attached to the given claim key.
func (r Result) ClaimErrors(claim string) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Claim == claim {
			out = append(out, e)
		}
	}
	return out
}
