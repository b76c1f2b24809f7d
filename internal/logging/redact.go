package logging

import "strings"

// secretKeyPatterns are substrings that mark a key as sensitive.
// Matching is case-insensitive.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// tokenPrefixes are well-known API token prefixes that are masked
// regardless of the key they appear under.
var tokenPrefixes = []string{
	"ghp_", "gho_", "ghu_", "ghs_", "ghr_",
	"sk-",
	"AKIA",
	"xoxb-", "xoxp-", "xoxa-", "xoxr-",
}

// ShouldMask reports whether key looks like it names a secret.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// isPlaceholder reports whether value is a bare ${NAME} reference.
// Placeholders carry no secret and stay readable.
func isPlaceholder(value string) bool {
	return strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}")
}

// MaskValue hides all but the last four characters of value.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskEnv returns a copy of env with secret-looking values masked.
// Placeholder references such as ${GITHUB_TOKEN} are left as is.
func MaskEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	masked := make(map[string]string, len(env))
	for k, v := range env {
		if !isPlaceholder(v) && (ShouldMask(k) || ContainsTokenPrefix(v)) {
			masked[k] = MaskValue(v)
			continue
		}
		masked[k] = v
	}
	return masked
}
