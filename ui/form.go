package ui

import (
	"net/mail"
)

// InputType determines the validation of an input.
type InputType string

const (
	InputTypePin   InputType = "pin"
	InputTypeEmail InputType = "email"
	InputTypeText  InputType = "text"
)

// MinPinLength is the minimum number of digits of a PIN.
const MinPinLength = 5

// Validate checks value against the rules of inputType. If it is invalid, the translation key
// of the message to show is returned, relative to the FormInput namespace.
func Validate(inputType InputType, value string) (ok bool, messageKey string) {
	if value == "" {
		return false, ".required"
	}
	switch inputType {
	case InputTypePin:
		if len(value) < MinPinLength {
			return false, ".pinInvalid"
		}
		for _, c := range value {
			if c < '0' || c > '9' {
				return false, ".pinInvalid"
			}
		}
	case InputTypeEmail:
		if _, err := mail.ParseAddress(value); err != nil {
			return false, ".invalid"
		}
	}
	return true, ""
}

// ValidateRepeated validates a value that was entered twice. It returns the value when both
// entries are equal and valid, and the empty string otherwise.
func ValidateRepeated(inputType InputType, first, repeat string) (value string, messageKey string) {
	if ok, key := Validate(inputType, first); !ok {
		return "", key
	}
	if first != repeat {
		return "", ".repeatMismatch"
	}
	return first, ""
}
