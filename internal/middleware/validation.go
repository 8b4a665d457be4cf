package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxMessageLength = 2000
	maxUserIDLength  = 128
	maxKeywordLength = 100
)

// ValidateMessage validates a chat message.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message cannot be empty")
	}
	if !utf8.ValidString(message) {
		return errors.New("message must be valid UTF-8")
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return errors.New("message exceeds maximum length")
	}
	return nil
}

// ValidateUserID validates a chat user ID.
func ValidateUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("userId cannot be empty")
	}
	if !utf8.ValidString(id) {
		return errors.New("userId must be valid UTF-8")
	}
	if len(id) > maxUserIDLength {
		return errors.New("userId exceeds maximum length")
	}
	return nil
}

// ValidateSearchTerm validates a date or keyword search filter.
func ValidateSearchTerm(term string) error {
	if !utf8.ValidString(term) {
		return errors.New("search term must be valid UTF-8")
	}
	if utf8.RuneCountInString(term) > maxKeywordLength {
		return errors.New("search term exceeds maximum length")
	}
	return nil
}
