// Package validate holds the field rules checked before a package is
// submitted. Only name and version have rules; every other field is
// accepted as-is.
package validate

import (
	"regexp"

	"github.com/SO-Ctrix/Node-Packer/internal/models"
)

const (
	NameMessage    = "name may only contain lowercase letters, digits, - and _"
	VersionMessage = "invalid version (format: x.y.z)"
)

var (
	nameRe    = regexp.MustCompile(`^[a-z0-9-_]+$`)
	versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z-]+)?$`)
)

func ValidateName(s string) error {
	if nameRe.MatchString(s) {
		return nil
	}
	return &models.ValidationError{Field: "name", Message: NameMessage}
}

func ValidateVersion(s string) error {
	if versionRe.MatchString(s) {
		return nil
	}
	return &models.ValidationError{Field: "version", Message: VersionMessage}
}

// Field runs the rule for field, if it has one.
func Field(field, value string) error {
	switch field {
	case "name":
		return ValidateName(value)
	case "version":
		return ValidateVersion(value)
	}
	return nil
}
