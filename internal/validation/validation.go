package validation

import (
	"strings"

	"bugtracker/internal/models"
)

// Messages returned to clients. These are part of the wire contract.
const (
	MsgTitleRequired       = "Title field is required"
	MsgDescriptionRequired = "Description field is required"
	MsgInvalidStatus       = "Invalid status value. Must be open, in-progress, or resolved."
	MsgInvalidPriority     = "Invalid priority value. Must be low, medium, or high."
)

// Input is the client-supplied payload for creating or updating a bug.
// Absent fields and blank fields are treated the same.
type Input struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// Result is the outcome of validating an Input: either valid, or a mapping
// of field name to error message.
type Result struct {
	errors map[string]string
}

// Valid reports whether the input passed every check.
func (r Result) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns the field-to-message mapping. Empty when the input is valid.
func (r Result) Errors() map[string]string {
	if r.errors == nil {
		return map[string]string{}
	}
	return r.errors
}

// ValidateBugInput checks a create or update payload. It is pure: it never
// touches the store and never mutates its argument.
//
// Title and description must be non-blank regardless of isUpdate. Status and
// priority are checked against their enums on the create path, or on the
// update path only when a non-blank value was supplied; a blank enum field on
// update means "leave unchanged" and passes.
func ValidateBugInput(in Input, isUpdate bool) Result {
	errors := map[string]string{}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	status := strings.TrimSpace(in.Status)
	priority := strings.TrimSpace(in.Priority)

	if title == "" {
		errors["title"] = MsgTitleRequired
	}
	if description == "" {
		errors["description"] = MsgDescriptionRequired
	}

	if !isUpdate || status != "" {
		if !models.Status(status).Valid() {
			errors["status"] = MsgInvalidStatus
		}
	}
	if !isUpdate || priority != "" {
		if !models.Priority(priority).Valid() {
			errors["priority"] = MsgInvalidPriority
		}
	}

	if len(errors) == 0 {
		return Result{}
	}
	return Result{errors: errors}
}
