package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkingovr/body-guard/internal/audit"
	"github.com/tkingovr/body-guard/internal/config"
	"github.com/tkingovr/body-guard/internal/dashboard"
	httpproxy "github.com/tkingovr/body-guard/internal/proxy/http"
)

var (
	serveListen   string
	serveUpstream string
	serveAdmin    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the filtering reverse proxy",
	Long: `Start an HTTP reverse proxy in front of the upstream service. Request
bodies go through the access stage before they are forwarded; response
bodies go through the output body stage before they reach the client.`,
	Example: `  bodyguard serve -c bodyguard.yaml
  bodyguard serve --listen :8080 --upstream http://127.0.0.1:8081
  bodyguard serve --admin 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveUpstream, "upstream", "", "upstream URL (overrides config)")
	serveCmd.Flags().StringVar(&serveAdmin, "admin", "", "admin dashboard address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveUpstream != "" {
		cfg.Upstream = serveUpstream
	}
	if serveAdmin != "" {
		cfg.AdminListen = serveAdmin
	}

	auditStore, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer auditStore.Close()

	pipeline, err := buildPipeline(cfg, logger, auditStore)
	if err != nil {
		return err
	}

	proxy, err := httpproxy.NewProxy(cfg.Upstream, pipeline, httpproxy.Options{
		BufferSize: cfg.Body.BufferSize,
		TempDir:    cfg.Body.TempDir,
		ArenaLimit: cfg.Body.ArenaLimit,
	}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down proxy")
		cancel()
	}()

	if cfg.AdminListen != "" {
		dash := dashboard.NewServer(cfg.AdminListen, auditStore, pipeline, cfg.Body.ArenaLimit, logger)
		go func() {
			if err := dash.ListenAndServe(ctx); err != nil {
				logger.Error("dashboard error", "error", err)
			}
		}()
	}

	err = proxy.ListenAndServe(ctx, cfg.Listen)

	if stats, serr := auditStore.Stats(context.Background()); serr == nil {
		logger.Info("audit summary",
			"total", stats.Total,
			"unchanged", stats.UnchangedCount,
			"transformed", stats.TransformedCount,
			"rejected", stats.RejectedCount,
			"errors", stats.ErrorCount,
			"logDir", cfg.LogDir,
		)
	}
	return err
}

// openAudit returns the JSONL store, fanned out to Redis when configured.
func openAudit(cfg *config.Config) (audit.Store, error) {
	jsonl, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating audit store: %w", err)
	}
	rc := cfg.Audit.Redis
	if rc.Address == "" {
		return jsonl, nil
	}

	rs := audit.NewRedisStore(audit.RedisOptions{
		Address:  rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
		Channel:  rc.Channel,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("redis audit sink unreachable", "addr", rc.Address, "error", err)
	}
	return audit.NewFanOut(jsonl, rs), nil
}
