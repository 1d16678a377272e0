package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for credentials found in CI jobs.
var secretPatterns = []*regexp.Regexp{
	// Fine-grained personal access tokens
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Classic, OAuth, user-to-server, server-to-server and refresh tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Bearer and token authorization headers
	regexp.MustCompile(`(?i)(bearer|token)\s+[A-Za-z0-9._~+/-]{20,}=*`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Token assignments in URLs or env dumps
	regexp.MustCompile(`(?i)(access_token|token|password)=[^&\s]{8,}`),
}

// Secrets replaces detected credentials in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Token masks a known token for display, keeping the last four characters
// of tokens long enough that they do not reveal it.
func Token(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 12 {
		return placeholder
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
