package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// CFMS and employee identifiers: letters, digits and dashes, at most 20 chars.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)

func IsValidIdentifier(id string) bool {
	return identifierRegex.MatchString(id)
}

// NormalizeMobile strips spaces, dashes and an Indian country/trunk prefix.
func NormalizeMobile(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.TrimPrefix(phone, "+")
	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}
	return phone
}

// Mobile number validation: 10 digits starting with 6-9 once normalized.
func IsValidMobile(phone string) bool {
	phone = NormalizeMobile(phone)
	if len(phone) != 10 || !IsNumeric(phone) {
		return false
	}
	return phone[0] >= '6' && phone[0] <= '9'
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
