package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	domainllm "docsmith/internal/domain/services/llm"
)

// RetryPolicy bounds how a provider call is retried.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration // first backoff, doubled per attempt
	MaxDelay    time.Duration
	Timeout     time.Duration // per attempt; 0 means none
}

// DefaultRetryPolicy is three attempts with 1s exponential backoff
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Delay:       time.Second,
	MaxDelay:    8 * time.Second,
	Timeout:     90 * time.Second,
}

// RetryingProvider decorates a ContentProvider with a retry policy.
// It only repeats the provider call; callers apply side effects once,
// after it returns.
type RetryingProvider struct {
	next   domainllm.ContentProvider
	policy RetryPolicy
	logger *slog.Logger
}

// NewRetryingProvider wraps next
func NewRetryingProvider(next domainllm.ContentProvider, policy RetryPolicy, logger *slog.Logger) *RetryingProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryingProvider{next: next, policy: policy, logger: logger}
}

// GenerateSection retries transient failures of next.GenerateSection
func (p *RetryingProvider) GenerateSection(ctx context.Context, req *domainllm.GenerateSectionRequest) (string, error) {
	return p.do(ctx, "generate", func(ctx context.Context) (string, error) {
		return p.next.GenerateSection(ctx, req)
	})
}

// RefineSection retries transient failures of next.RefineSection
func (p *RetryingProvider) RefineSection(ctx context.Context, req *domainllm.RefineSectionRequest) (string, error) {
	return p.do(ctx, "refine", func(ctx context.Context) (string, error) {
		return p.next.RefineSection(ctx, req)
	})
}

func (p *RetryingProvider) do(ctx context.Context, op string, call func(context.Context) (string, error)) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			attemptCtx := ctx
			if p.policy.Timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, p.policy.Timeout)
				defer cancel()
			}
			return call(attemptCtx)
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.policy.MaxAttempts)),
		retry.Delay(p.policy.Delay),
		retry.MaxDelay(p.policy.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !IsFatal(err) }),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("provider call failed, retrying",
				"operation", op,
				"attempt", n+1,
				"max_attempts", p.policy.MaxAttempts,
				"error", err,
			)
		}),
	)
}
