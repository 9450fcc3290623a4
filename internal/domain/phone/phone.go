// Package phone validates national mobile numbers and reduces them to the single local form
// that is persisted.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

// CountryCode is the international dialling code of the supported numbering plan.
const CountryCode = "963"

var ErrInvalidPhone = errors.New("phone number must be a valid mobile number, e.g. 0933123456 or +963933123456")

var (
	localPattern = regexp.MustCompile(`^09[3-9]\d{7}$`)
	plusPattern  = regexp.MustCompile(`^\+` + CountryCode + `9[3-9]\d{7}$`)
	zeroPattern  = regexp.MustCompile(`^00` + CountryCode + `9[3-9]\d{7}$`)
	barePattern  = regexp.MustCompile(`^` + CountryCode + `9[3-9]\d{7}$`)

	separators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// Normalize strips the separators users commonly type.
func Normalize(value string) string {
	return separators.Replace(strings.TrimSpace(value))
}

func Validate(value string) error {
	normalized := Normalize(value)
	switch {
	case localPattern.MatchString(normalized),
		plusPattern.MatchString(normalized),
		zeroPattern.MatchString(normalized),
		barePattern.MatchString(normalized):
		return nil
	default:
		return ErrInvalidPhone
	}
}

// Format rewrites any accepted international prefix to the local 0-prefixed form.
// Values that are already local, or not recognised, are returned normalized but otherwise unchanged.
func Format(value string) string {
	normalized := Normalize(value)
	switch {
	case plusPattern.MatchString(normalized):
		return "0" + strings.TrimPrefix(normalized, "+"+CountryCode)
	case zeroPattern.MatchString(normalized):
		return "0" + strings.TrimPrefix(normalized, "00"+CountryCode)
	case barePattern.MatchString(normalized):
		return "0" + strings.TrimPrefix(normalized, CountryCode)
	default:
		return normalized
	}
}

// Canonical validates value and returns its storage form.
func Canonical(value string) (string, error) {
	if err := Validate(value); err != nil {
		return "", err
	}
	return Format(value), nil
}

// CanonicalPtr is Canonical for optional numbers; nil and blank stay nil.
func CanonicalPtr(value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	canonical, err := Canonical(*value)
	if err != nil {
		return nil, err
	}
	return &canonical, nil
}
