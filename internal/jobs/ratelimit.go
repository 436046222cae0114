package jobs

import (
	"context"

	"webhook-gateway/internal/model"
	pkgLog "webhook-gateway/pkg/log"
)

const (
	gaugeRateLimitRemaining = "provider.rate_limit.remaining"
	gaugeRateLimitTotal     = "provider.rate_limit.total"
)

// RateLimitSampler periodically records each account's remaining provider API
// quota so operators can see an organization running low before calls start
// failing.
type RateLimitSampler struct {
	accounts AccountSource
	tokens   TokenSource
	host     RepoHost
	sink     MetricsSink
	l        pkgLog.Logger
}

func NewRateLimitSampler(accounts AccountSource, tokens TokenSource, host RepoHost, sink MetricsSink, l pkgLog.Logger) *RateLimitSampler {
	return &RateLimitSampler{accounts: accounts, tokens: tokens, host: host, sink: sink, l: l}
}

// Sample takes one quota reading per active GitHub account. A failing account
// is logged and skipped; the pass continues.
func (s *RateLimitSampler) Sample(ctx context.Context) error {
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if account.Provider != model.ProviderGitHub {
			continue
		}
		tok, ok := s.tokens.GetToken(ctx, account)
		if !ok {
			s.l.Warnf(ctx, "rate limit sample skipped, no token: account=%s", account.ID)
			continue
		}
		usage, err := s.host.RateLimit(ctx, tok)
		if err != nil {
			s.l.Warnf(ctx, "rate limit sample failed: account=%s err=%v", account.ID, err)
			continue
		}
		tags := map[string]string{"organization": account.ID}
		s.sink.Gauge(ctx, gaugeRateLimitRemaining, float64(usage.Remaining), tags)
		s.sink.Gauge(ctx, gaugeRateLimitTotal, float64(usage.Limit), tags)
	}
	return nil
}
