package filter

import (
	"log/slog"

	"github.com/tkingovr/body-guard/internal/policy"
)

// ChainConfig holds the configuration for building filter chains.
type ChainConfig struct {
	Logger *slog.Logger

	// Redaction enables the email redactor on response bodies.
	Redaction bool

	// Inspection enables the forbidden pattern inspector on request bodies.
	Inspection bool
	Pattern    []byte
	ScanMode   ScanMode

	SecretScanner bool

	// Engine, when set, evaluates request metadata before any body filter.
	Engine policy.Engine
}

// BuildInboundChain constructs the request body (access stage) chain.
func BuildInboundChain(cfg ChainConfig) *InspectChain {
	var filters []Inspector

	// Policy first so metadata rejections do not depend on body content
	if cfg.Engine != nil {
		filters = append(filters, NewPolicyInspector(cfg.Engine))
	}

	if cfg.Inspection {
		pattern := cfg.Pattern
		if len(pattern) == 0 {
			pattern = []byte(DefaultForbiddenPattern)
		}
		filters = append(filters, NewPatternInspector(pattern, cfg.ScanMode))
	}

	if cfg.SecretScanner {
		filters = append(filters, NewSecretInspector())
	}

	return NewInspectChain(cfg.Logger, filters...)
}

// BuildOutboundChain constructs the response body (output stage) chain.
func BuildOutboundChain(cfg ChainConfig) *TransformChain {
	var filters []Transformer
	if cfg.Redaction {
		filters = append(filters, NewEmailRedactor())
	}
	return NewTransformChain(cfg.Logger, filters...)
}
