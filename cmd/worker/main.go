package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"webhook-gateway/config"
	"webhook-gateway/internal/emitter"
	"webhook-gateway/internal/jobs"
	"webhook-gateway/internal/model"
	"webhook-gateway/internal/token"
	"webhook-gateway/pkg/log"
)

// main is the entry point for the recurring maintenance service: provider
// quota sampling and project resync.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting maintenance worker...")

	// Token lifecycle manager
	accountStore := token.NewMemoryStore()
	manager := token.NewManager(accountStore, logger, nil)

	if cfg.GitHub.AppID != 0 {
		keyPEM, err := os.ReadFile(cfg.GitHub.PrivateKeyPath)
		if err != nil {
			logger.Error(ctx, "Failed to read GitHub App private key: ", err)
			return
		}
		app, err := token.NewGitHubApp(strconv.FormatInt(cfg.GitHub.AppID, 10), keyPEM, cfg.GitHub.BaseURL)
		if err != nil {
			logger.Error(ctx, "Failed to set up GitHub App: ", err)
			return
		}
		manager.Register(model.ProviderGitHub, app, app)
	}
	if cfg.Bitbucket.ClientID != "" {
		manager.Register(model.ProviderBitbucket,
			token.NewBitbucketOAuth(cfg.Bitbucket.ClientID, cfg.Bitbucket.ClientSecret, cfg.Bitbucket.TokenURL), nil)
	}

	// Event emitter
	publisher, err := emitter.NewAMQPPublisher(cfg.AMQP.URL)
	if err != nil {
		logger.Error(ctx, "Failed to connect to message bus: ", err)
		return
	}
	defer publisher.Close()
	em := emitter.New(publisher, logger, nil)

	// Recurring tasks
	host := jobs.NewGitHubHost(cfg.GitHub.BaseURL)
	sampler := jobs.NewRateLimitSampler(accountStore, manager, host, jobs.NewLogSink(logger), logger)
	resync := jobs.NewResync(jobs.NewMemoryProjects(), manager, host, em, logger)

	scheduler := jobs.NewScheduler(logger,
		jobs.Task{Name: "rate-limit-sample", Interval: cfg.Jobs.RateLimitInterval, Run: sampler.Sample},
		jobs.Task{Name: "project-resync", Interval: cfg.Jobs.ResyncInterval, Run: resync.Run},
	)
	scheduler.Run(ctx)

	logger.Info(ctx, "Maintenance worker stopped gracefully")
}
