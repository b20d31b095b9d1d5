package service

import (
	"strings"
	"unicode/utf8"
)

const notAvailable = "N/A"

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := []rune(parts[0])
	domain := parts[1]
	masked := string(local[:1]) + "***"
	if len(local) > 2 {
		masked += string(local[len(local)-1:])
	}
	return masked + "@" + domain
}

// truncate cuts s to at most limit characters without splitting a rune.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func valueOrNA(value *string) string {
	if value == nil {
		return notAvailable
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return notAvailable
	}
	return trimmed
}
