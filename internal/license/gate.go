// Package license gates feature execution behind a cached licensing check.
package license

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"webhook-gateway/pkg/cachedvalue"
	pkgLog "webhook-gateway/pkg/log"
)

const (
	cacheTTL = 5 * time.Minute
	// staleWindow bounds the revalidation race: concurrent callers keep the
	// previous value while one caller re-checks.
	staleWindow = 2 * time.Minute

	checkTimeout = 5 * time.Second
)

// Checker performs one licensing check against the backing service.
type Checker interface {
	Check(ctx context.Context) (bool, error)
}

// GRPCChecker asks the licensing service's health endpoint whether this
// deployment is entitled to run.
type GRPCChecker struct {
	client grpc_health_v1.HealthClient
	// service is the registered health service name, empty for the overall
	// server status.
	service string
}

func NewGRPCChecker(conn grpc.ClientConnInterface, service string) *GRPCChecker {
	return &GRPCChecker{
		client:  grpc_health_v1.NewHealthClient(conn),
		service: service,
	}
}

func (c *GRPCChecker) Check(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp, err := c.client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: c.service})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING, nil
}

// Gate is the process-wide licensing gate. Successful checks are cached for
// five minutes; failures never populate the cache so the next call retries,
// and the outward-facing answer on error is always false.
type Gate struct {
	checker Checker
	cache   *cachedvalue.Value[bool]
	l       pkgLog.Logger
}

// NewGate builds a gate. now is injectable for tests; pass nil for time.Now.
func NewGate(checker Checker, l pkgLog.Logger, now func() time.Time) *Gate {
	return &Gate{
		checker: checker,
		cache:   cachedvalue.New[bool](cacheTTL, staleWindow, now),
		l:       l,
	}
}

// Verify reports whether licensed feature execution is permitted. Fail-closed:
// any error from the backing check resolves to false for the caller that hit
// it, and never populates the cache. Callers arriving while a stale value is
// being revalidated still receive the previous answer.
func (g *Gate) Verify(ctx context.Context) bool {
	licensed, err := g.cache.Get(ctx, func(ctx context.Context) (bool, error) {
		return g.checker.Check(ctx)
	})
	if err != nil {
		g.l.Warnf(ctx, "license check failed: err=%v", err)
		return false
	}
	return licensed
}
