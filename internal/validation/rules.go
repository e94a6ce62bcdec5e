// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/omnichat/internal/errors"
	keystoreDomain "github.com/allisson/omnichat/internal/keystore/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// MinRunes validates that a string holds at least Min characters, counted as Unicode code
// points rather than bytes.
type MinRunes struct {
	Min int
}

// Validate implements validation.Rule.
func (m MinRunes) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_min_runes_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if utf8.RuneCountInString(s) < m.Min {
		return validation.NewError(
			"validation_min_runes",
			fmt.Sprintf("must be at least %d characters", m.Min),
		)
	}
	return nil
}

// Passphrase validates the minimum keystore passphrase length.
var Passphrase = MinRunes{Min: keystoreDomain.MinPassphraseLength}

// ProviderName validates that a string names a supported provider.
var ProviderName = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := keystoreDomain.ParseProvider(s)
		return err == nil
	},
	validation.NewError("validation_provider", "must be one of: openai, gemini, groq, claude"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
