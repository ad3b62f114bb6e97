package cliutil

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[redacted]"

var (
	bearerPattern    = regexp.MustCompile(`(?i)\b(bearer\s+)[A-Za-z0-9._~+/=-]+`)
	urlCredsPattern  = regexp.MustCompile(`(\b[a-z][a-z0-9+.-]*://[^:/\s@]+:)([^@\s]+)(@)`)
	secretKeyPattern = regexp.MustCompile(`(?i)\b(\w*(?:` + strings.Join(secretKeys(), "|") + `))\b(\s*[:=]\s*)(["']?)([^"'\s,]+)(["']?)`)
)

func secretKeys() []string {
	keys := []string{
		"SECRET",
		"PASSWORD",
		"TOKEN",
		"API_KEY",
		"APIKEY",
		"PRIVATE_KEY",
		"DATABASE_URL",
		"DSN",
	}
	escaped := make([]string, len(keys))
	for i, key := range keys {
		escaped[i] = regexp.QuoteMeta(key)
	}
	return escaped
}

// RedactSecrets masks values that dev servers tend to print: assignments to
// secret-looking keys such as NEXTAUTH_SECRET or STRIPE_API_KEY, bearer
// tokens and passwords embedded in connection URLs.
func RedactSecrets(message string) string {
	if message == "" {
		return message
	}
	redacted := urlCredsPattern.ReplaceAllString(message, "$1"+redactedPlaceholder+"$3")
	redacted = bearerPattern.ReplaceAllString(redacted, "$1"+redactedPlaceholder)
	return secretKeyPattern.ReplaceAllString(redacted, "$1$2$3"+redactedPlaceholder+"$5")
}
