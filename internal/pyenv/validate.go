package pyenv

import (
	"regexp"
	"strings"
)

const maxNameLen = 128

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// ValidateName checks a value that ends up in an argument vector or a path.
// Only letters, digits and ._+- are accepted, the first character must be
// alphanumeric, and ".." is rejected so the value can never leave the
// directory it is joined to.
func ValidateName(field, value string) error {
	switch {
	case value == "":
		return &ValidationError{Field: field, Reason: "campo requerido"}
	case len(value) > maxNameLen:
		return &ValidationError{Field: field, Reason: "demasiado largo"}
	case !namePattern.MatchString(value):
		return &ValidationError{Field: field, Reason: "contiene caracteres no permitidos"}
	case strings.Contains(value, ".."):
		return &ValidationError{Field: field, Reason: "contiene caracteres no permitidos"}
	}
	return nil
}
