package registry

import "regexp"

// SecretPattern couples a provider-specific credential shape with its compiled expression.
type SecretPattern struct {
	ID         string
	Provider   string
	Expression *regexp.Regexp
}

// Patterns favor precision over recall: every expression anchors on a
// provider-issued prefix or framing so ordinary identifiers do not match.
var defaultSecretPatterns = []SecretPattern{
	{
		ID:         "aws-access-key-id",
		Provider:   "aws",
		Expression: regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`),
	},
	{
		ID:         "github-personal-access-token",
		Provider:   "github",
		Expression: regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`),
	},
	{
		ID:         "github-fine-grained-token",
		Provider:   "github",
		Expression: regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9]{22}_[A-Za-z0-9]{59}\b`),
	},
	{
		ID:         "gitlab-personal-access-token",
		Provider:   "gitlab",
		Expression: regexp.MustCompile(`\bglpat-[A-Za-z0-9\-_]{20}\b`),
	},
	{
		ID:         "slack-token",
		Provider:   "slack",
		Expression: regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z\-]{10,}\b`),
	},
	{
		ID:         "google-api-key",
		Provider:   "google",
		Expression: regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{35}\b`),
	},
	{
		ID:         "stripe-live-secret-key",
		Provider:   "stripe",
		Expression: regexp.MustCompile(`\bsk_live_[0-9a-zA-Z]{24,}\b`),
	},
	{
		ID:         "npm-access-token",
		Provider:   "npm",
		Expression: regexp.MustCompile(`\bnpm_[A-Za-z0-9]{36}\b`),
	},
	{
		ID:         "private-key-block",
		Provider:   "pem",
		Expression: regexp.MustCompile(`-----BEGIN (?:RSA|EC|DSA|OPENSSH|PGP) PRIVATE KEY-----`),
	},
}

// DefaultSecretPatterns returns a copy of the built-in secret pattern table.
func DefaultSecretPatterns() []SecretPattern {
	duplicated := make([]SecretPattern, len(defaultSecretPatterns))
	copy(duplicated, defaultSecretPatterns)
	return duplicated
}
