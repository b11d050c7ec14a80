// Package validate implements the client-side validation rules applied
// before any network submission. Validation errors are field-scoped and
// block the submit; they never reach the network.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"acadconnect/internal/model"
)

// Field length bounds shared with the backend forms.
const (
	MinName        = 2
	MinPassword    = 8
	MinTitle       = 2
	MinDepartment  = 3
	MinBio         = 10
	MaxBio         = 500
	MinContactInfo = 5
	MinMessage     = 10
	MaxMessage     = 500
)

// Errors maps a field name to its first failing rule's message. A nil or
// empty Errors means the input passed.
type Errors map[string]string

// Ok reports whether no field failed.
func (e Errors) Ok() bool { return len(e) == 0 }

// Error implements the error interface so an Errors value can travel
// through normal error returns when callers do not need per-field detail.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "valid"
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func (e Errors) set(field, msg string) {
	if _, dup := e[field]; !dup {
		e[field] = msg
	}
}

// Email checks that the address parses per RFC 5322.
func Email(addr string) bool {
	if addr == "" {
		return false
	}
	_, err := mail.ParseAddress(addr)
	return err == nil
}

// Registration validates a signup form. All profile rules plus password
// rules apply; ConfirmPassword must match Password exactly.
func Registration(r model.Registration) Errors {
	errs := profileErrors(r.User)

	if !Email(r.Email) {
		errs.set("email", "please enter a valid email address")
	}
	if len(r.Password) < MinPassword {
		errs.set("password", fmt.Sprintf("password must be at least %d characters", MinPassword))
	}
	if r.ConfirmPassword != r.Password {
		errs.set("confirmPassword", "passwords don't match")
	}
	if !r.UserType.Valid() {
		errs.set("userType", "select whether you are faculty or a student")
	}
	return errs
}

// Login validates a login form. Unlike registration, the password only
// has to be non-empty.
func Login(c model.Credentials) Errors {
	errs := Errors{}
	if !Email(c.Email) {
		errs.set("email", "please enter a valid email address")
	}
	if c.Password == "" {
		errs.set("password", "password is required")
	}
	return errs
}

// Profile validates an edit buffer before it is submitted as an update.
func Profile(u model.User) Errors {
	errs := profileErrors(u)
	if !u.UserType.Valid() {
		errs.set("userType", "unknown user type")
	}
	return errs
}

// RequestMessage validates the free-text message of a collaboration
// request.
func RequestMessage(msg string) Errors {
	errs := Errors{}
	n := len(strings.TrimSpace(msg))
	if n < MinMessage {
		errs.set("message", fmt.Sprintf("message must be at least %d characters", MinMessage))
	} else if n > MaxMessage {
		errs.set("message", fmt.Sprintf("message cannot exceed %d characters", MaxMessage))
	}
	return errs
}

// profileErrors applies the rules common to registration and profile
// editing.
func profileErrors(u model.User) Errors {
	errs := Errors{}

	if len(strings.TrimSpace(u.Name)) < MinName {
		errs.set("name", fmt.Sprintf("name must be at least %d characters", MinName))
	}
	title := u.Position
	if u.IsStudent() {
		title = u.Title
	}
	if len(strings.TrimSpace(title)) < MinTitle {
		errs.set("title", "title is required")
	}
	if len(strings.TrimSpace(u.Department)) < MinDepartment {
		errs.set("department", "department is required")
	}
	if n := len(u.Bio); n < MinBio {
		errs.set("bio", fmt.Sprintf("bio must be at least %d characters", MinBio))
	} else if n > MaxBio {
		errs.set("bio", fmt.Sprintf("bio cannot exceed %d characters", MaxBio))
	}
	if len(strings.TrimSpace(u.ContactInfo)) < MinContactInfo {
		errs.set("contactInfo", "contact info is required (e.g. university email or office number)")
	}
	if len(u.ResearchInterests) == 0 {
		errs.set("researchInterests", "add at least one research interest")
	} else {
		for _, interest := range u.ResearchInterests {
			if strings.TrimSpace(interest) == "" {
				errs.set("researchInterests", "interest cannot be empty")
				break
			}
		}
	}
	return errs
}
