package cli

import (
	"fmt"
	"log/slog"

	"github.com/tkingovr/body-guard/internal/audit"
	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/config"
	"github.com/tkingovr/body-guard/internal/filter"
	"github.com/tkingovr/body-guard/internal/host"
	"github.com/tkingovr/body-guard/internal/policy"
	"github.com/tkingovr/body-guard/internal/stage"
)

// buildPipeline installs the access and output stages described by cfg
// and starts the pipeline. store may be nil.
func buildPipeline(cfg *config.Config, logger *slog.Logger, store audit.Store) (*host.Pipeline, error) {
	chainCfg := filter.ChainConfig{
		Logger:        logger,
		Redaction:     cfg.Redaction.Enabled,
		Inspection:    cfg.Inspection.Enabled,
		Pattern:       []byte(cfg.Inspection.Pattern),
		ScanMode:      filter.ScanMode(cfg.Inspection.ScanMode),
		SecretScanner: cfg.Inspection.Enabled && cfg.Inspection.Secrets,
	}
	if cfg.Policy.RegoFile != "" {
		engine, err := policy.NewOPAEngine(cfg.Policy.RegoFile)
		if err != nil {
			return nil, fmt.Errorf("creating policy engine: %w", err)
		}
		chainCfg.Engine = engine
	}

	opts := stage.Options{
		Reader:       body.NewReader(nil),
		Logger:       logger,
		Audit:        store,
		RejectStatus: cfg.Inspection.RejectStatus,
	}

	p := host.NewPipeline(nil)
	if inbound := filter.BuildInboundChain(chainCfg); inbound.Len() > 0 {
		if err := stage.NewAccess(inbound, opts).Install(p); err != nil {
			return nil, fmt.Errorf("installing access stage: %w", err)
		}
	}
	if outbound := filter.BuildOutboundChain(chainCfg); outbound.Len() > 0 {
		if err := stage.NewOutput(outbound, opts).Install(p); err != nil {
			return nil, fmt.Errorf("installing output stage: %w", err)
		}
	}
	p.Start()

	logger.Debug("pipeline started",
		"redaction", chainCfg.Redaction,
		"inspection", chainCfg.Inspection,
		"scanMode", cfg.Inspection.ScanMode,
		"policy", cfg.Policy.RegoFile,
	)
	return p, nil
}
