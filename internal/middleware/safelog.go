package middleware

import "strings"

// MaskToken masks an auth token for logging (never log the full value).
func MaskToken(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "***"
}
