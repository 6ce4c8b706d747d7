package filter

import (
	"context"
	"fmt"
	"regexp"
)

// SecretPattern defines a named regex pattern for detecting secrets.
type SecretPattern struct {
	Name  string
	Regex *regexp.Regexp
}

// DefaultSecretPatterns returns the built-in set of secret detection patterns.
func DefaultSecretPatterns() []SecretPattern {
	return []SecretPattern{
		{Name: "aws_access_key", Regex: regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
		{Name: "github_token", Regex: regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,255}`)},
		{Name: "github_pat_fine", Regex: regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,255}`)},
		{Name: "private_key", Regex: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)},
		{Name: "slack_token", Regex: regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`)},
		{Name: "stripe_key", Regex: regexp.MustCompile(`(?:sk|pk)_(?:live|test)_[A-Za-z0-9]{20,100}`)},
		{Name: "google_api_key", Regex: regexp.MustCompile(`AIza[A-Za-z0-9\-_]{35}`)},
		{Name: "jwt_token", Regex: regexp.MustCompile(`eyJ[A-Za-z0-9-_]+\.eyJ[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+`)},
	}
}

// SecretInspector rejects request bodies carrying well-known credentials.
// Patterns are matched against the whole payload.
type SecretInspector struct {
	patterns []SecretPattern
}

// SecretInspectorOption configures the SecretInspector.
type SecretInspectorOption func(*SecretInspector)

// WithPatterns sets custom secret patterns (replaces defaults).
func WithPatterns(patterns []SecretPattern) SecretInspectorOption {
	return func(f *SecretInspector) {
		f.patterns = patterns
	}
}

// NewSecretInspector creates a new secret inspector.
func NewSecretInspector(opts ...SecretInspectorOption) *SecretInspector {
	f := &SecretInspector{
		patterns: DefaultSecretPatterns(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *SecretInspector) Name() string { return "secret_scanner" }

func (f *SecretInspector) Inspect(_ context.Context, s *Subject) (Decision, error) {
	if s.Body == nil || s.Body.Len() == 0 {
		return Allow(), nil
	}

	data := s.Body.Bytes()
	for _, p := range f.patterns {
		if p.Regex.Match(data) {
			d := Reject(fmt.Sprintf("potential secret detected: %s pattern matched", p.Name))
			d.Filter = "secret_scanner:" + p.Name
			return d, nil
		}
	}
	return Allow(), nil
}
