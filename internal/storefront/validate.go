package storefront

import "strings"

// ValidationError is a field-scoped message produced before any network
// call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrors collects per-field messages from one validation pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "invalid input"
	}
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for the named field, or "".
func (e ValidationErrors) Field(name string) string {
	for _, v := range e {
		if v.Field == name {
			return v.Message
		}
	}
	return ""
}

// ValidateLogin checks the login form inputs. Empty fields produce
// field-level messages and must never reach the network.
func ValidateLogin(username, password string) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(username) == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "Please input a username."})
	}
	if strings.TrimSpace(password) == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "Please input a password."})
	}
	return errs
}
