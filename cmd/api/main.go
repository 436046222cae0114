package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"webhook-gateway/config"
	"webhook-gateway/internal/dispatch"
	"webhook-gateway/internal/emitter"
	"webhook-gateway/internal/httpserver"
	"webhook-gateway/internal/license"
	"webhook-gateway/internal/webhook"
	"webhook-gateway/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting webhook gateway...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. License gate
	licenseConn, err := grpc.NewClient(cfg.License.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Error(ctx, "Failed to set up license client: ", err)
		return
	}
	defer licenseConn.Close()
	gate := license.NewGate(license.NewGRPCChecker(licenseConn, cfg.License.Service), logger, nil)

	// 4. Event emitter
	publisher, err := emitter.NewAMQPPublisher(cfg.AMQP.URL)
	if err != nil {
		logger.Error(ctx, "Failed to connect to message bus: ", err)
		return
	}
	defer publisher.Close()
	em := emitter.New(publisher, logger, nil)

	// 5. Dispatch pipeline. The queue is in-process, so the workers run next
	// to the intake handlers.
	queue := dispatch.NewMemoryQueue(cfg.Worker.QueueSize)
	worker := dispatch.NewWorker(
		queue,
		dispatch.NewHTTPResolver(cfg.Worker.ResolverURL),
		dispatch.NewHTTPTrigger(cfg.Worker.TriggerURL),
		gate,
		em,
		logger,
	)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	logger.Infof(ctx, "Dispatch workers started: concurrency=%d queue_size=%d",
		cfg.Worker.Concurrency, cfg.Worker.QueueSize)

	// 6. Webhook intake
	webhookHandler := webhook.NewHandler(queue, webhook.SecurityConfig{
		Secret:          cfg.Webhook.Secret,
		AllowedIPs:      cfg.Webhook.AllowedIPs,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	}, logger)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	wg.Wait()
	logger.Info(ctx, "Server stopped gracefully")
}
