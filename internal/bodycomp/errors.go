package bodycomp

import (
	"fmt"
	"strings"
)

// ValidationError reports measurement inputs that are incomplete or out of
// domain for the selected method. It is returned before any computation
// happens — the engine never substitutes zeros for missing sites.
type ValidationError struct {
	Method  Method
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: required measurements missing: %s",
			e.Method, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Reason)
}

func missingErr(m Method, sites ...string) error {
	return &ValidationError{Method: m, Missing: sites}
}

func invalidErr(m Method, reason string) error {
	return &ValidationError{Method: m, Reason: reason}
}
