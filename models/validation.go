package models

import (
	"fmt"
	"regexp"
)

const (
	// NameMinLength is the shortest accepted cluster or preset name.
	NameMinLength = 3

	// NameMaxLength is the longest accepted cluster or preset name.
	NameMaxLength = 40

	// UserNameMaxLength is the longest accepted user name.
	UserNameMaxLength = 253
)

var (
	nameRegex     = regexp.MustCompile(`^[a-z](?:-?[a-z0-9])*$`)
	userNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

// ValidateClusterName checks that a cluster name follows the platform naming rules.
//
// The name can only contain lowercase letters, numbers and hyphens, the first
// character must be a letter, each hyphen must be surrounded by non-hyphen
// characters and the total length must be between 3 and 40.
//
// Parameters:
//   - name: The cluster name to validate
//
// Returns:
//   - error: ErrInvalidName wrapped with the offending value, nil otherwise
//
// Example:
//
//	if err := models.ValidateClusterName(args[0]); err != nil {
//	    return err
//	}
func ValidateClusterName(name string) error {
	return validateName("cluster", name)
}

// ValidatePresetName checks a resource preset name. Presets share the cluster naming rules.
func ValidatePresetName(name string) error {
	return validateName("preset", name)
}

func validateName(kind, name string) error {
	if len(name) < NameMinLength || len(name) > NameMaxLength || !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %s name %q must contain only lowercase letters, numbers and hyphens, "+
			"start with a letter, not have leading, trailing or doubled hyphens, "+
			"and be %d to %d characters long", ErrInvalidName, kind, name, NameMinLength, NameMaxLength)
	}
	return nil
}

// ValidateUserName checks a platform user name.
//
// Parameters:
//   - name: The user name to validate
//
// Returns:
//   - error: ErrInvalidName wrapped with the offending value, nil otherwise
func ValidateUserName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalidName)
	}
	if len(name) > UserNameMaxLength {
		return fmt.Errorf("%w: user name exceeds %d characters", ErrInvalidName, UserNameMaxLength)
	}
	if !userNameRegex.MatchString(name) {
		return fmt.Errorf("%w: user name %q may only contain lowercase letters, numbers, dots, "+
			"underscores and hyphens and must start with a letter or number", ErrInvalidName, name)
	}
	return nil
}
