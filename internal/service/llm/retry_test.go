package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainllm "docsmith/internal/domain/services/llm"
)

// scriptedProvider returns the scripted errors in order, then succeeds
type scriptedProvider struct {
	mu     sync.Mutex
	errs   []error
	calls  int
	block  bool
	answer string
}

func (s *scriptedProvider) next(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	block := s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if call <= len(s.errs) {
		return "", s.errs[call-1]
	}
	return s.answer, nil
}

func (s *scriptedProvider) GenerateSection(ctx context.Context, _ *domainllm.GenerateSectionRequest) (string, error) {
	return s.next(ctx)
}

func (s *scriptedProvider) RefineSection(ctx context.Context, _ *domainllm.RefineSectionRequest) (string, error) {
	return s.next(ctx)
}

func (s *scriptedProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetryingProvider_RetriesTransientErrors(t *testing.T) {
	inner := &scriptedProvider{
		errs:   []error{errors.New("503 overloaded"), ErrEmptyOutput},
		answer: "done",
	}
	p := NewRetryingProvider(inner, fastPolicy(), discardLogger())

	text, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 3, inner.callCount())
}

func TestRetryingProvider_StopsOnFatal(t *testing.T) {
	inner := &scriptedProvider{errs: []error{Fatal(errors.New("401 invalid api key"))}, answer: "unused"}
	p := NewRetryingProvider(inner, fastPolicy(), discardLogger())

	_, err := p.RefineSection(context.Background(), &domainllm.RefineSectionRequest{})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, inner.callCount())
}

func TestRetryingProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	last := errors.New("still down")
	inner := &scriptedProvider{errs: []error{errors.New("down"), errors.New("down again"), last}, answer: "unused"}
	p := NewRetryingProvider(inner, fastPolicy(), discardLogger())

	_, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{})
	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, inner.callCount())
}

func TestRetryingProvider_PerAttemptTimeout(t *testing.T) {
	inner := &scriptedProvider{block: true}
	policy := fastPolicy()
	policy.MaxAttempts = 2
	policy.Timeout = 5 * time.Millisecond
	p := NewRetryingProvider(inner, policy, discardLogger())

	_, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, inner.callCount())
}

func TestRetryingProvider_AtLeastOneAttempt(t *testing.T) {
	inner := &scriptedProvider{answer: "ok"}
	p := NewRetryingProvider(inner, RetryPolicy{}, discardLogger())

	text, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "marked", err: Fatal(errors.New("bad request")), want: true},
		{name: "wrapped mark", err: fmt.Errorf("openai generate: %w", Fatal(errors.New("bad request"))), want: true},
		{name: "canceled", err: fmt.Errorf("call: %w", context.Canceled), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "empty output", err: ErrEmptyOutput, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
	assert.Nil(t, Fatal(nil))
}
