package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/campus-ops/outreach-cli/internal/config"
	"github.com/campus-ops/outreach-cli/internal/resilience"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

// Stage describes one reasoning step executed per item of a batch. Parse
// must reject responses that do not satisfy the stage's verdict schema;
// Fallback must produce a deterministic safe-default verdict for the item.
type Stage[In any, V any] struct {
	Name      string
	System    []anthropic.SystemBlock
	MaxTokens int64
	Prompt    func(In) string
	Parse     func(text string) (V, error)
	Fallback  func(item In, cause error) V
}

// Executor runs per-item reasoning calls with bounded concurrency, rate
// limiting, and retry of transient failures.
type Executor struct {
	client      anthropic.Client
	cfg         config.AnthropicConfig
	limiter     *rate.Limiter
	retry       resilience.RetryConfig
	concurrency int
	timeout     time.Duration
}

// NewExecutor creates an Executor from the Anthropic configuration.
func NewExecutor(client anthropic.Client, cfg config.AnthropicConfig) *Executor {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2.0
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Executor{
		client:      client,
		cfg:         cfg,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		retry:       resilience.ReasoningRetryConfig(),
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// RunStage executes one reasoning call per item and returns verdicts in
// input order. A failed call, an unparseable response, or a schema
// violation degrades that item to its fallback verdict; the batch itself
// never fails and no item is dropped or reordered.
func RunStage[In any, V any](ctx context.Context, ex *Executor, stage Stage[In, V], items []In) ([]V, anthropic.TokenUsage) {
	verdicts := make([]V, len(items))
	if len(items) == 0 {
		return verdicts, anthropic.TokenUsage{}
	}

	var mu sync.Mutex
	var usage anthropic.TokenUsage
	var degraded int

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(ex.concurrency)

	for i, item := range items {
		g.Go(func() error {
			text, callUsage, err := ex.complete(gCtx, stage.System, stage.Prompt(item), stage.MaxTokens)

			mu.Lock()
			usage.Add(callUsage)
			mu.Unlock()

			if err == nil {
				verdict, parseErr := stage.Parse(cleanJSON(text))
				if parseErr == nil {
					verdicts[i] = verdict
					return nil
				}
				err = parseErr
			}

			zap.L().Warn("stage: reasoning step degraded to fallback",
				zap.String("stage", stage.Name),
				zap.Int("item", i),
				zap.Error(err),
			)
			verdicts[i] = stage.Fallback(item, err)
			mu.Lock()
			degraded++
			mu.Unlock()
			return nil
		})
	}

	// Workers only ever return nil; item failures become fallbacks.
	_ = g.Wait()

	zap.L().Info("stage: complete",
		zap.String("stage", stage.Name),
		zap.Int("items", len(items)),
		zap.Int("degraded", degraded),
	)
	usage.LogCost(ex.cfg.Model, stage.Name)

	return verdicts, usage
}

// complete performs a single reasoning call: rate-limited, time-bounded,
// with transient errors retried.
func (ex *Executor) complete(ctx context.Context, system []anthropic.SystemBlock, prompt string, maxTokens int64) (string, anthropic.TokenUsage, error) {
	if err := ex.limiter.Wait(ctx); err != nil {
		return "", anthropic.TokenUsage{}, eris.Wrap(err, "pipeline: rate limiter")
	}

	callCtx, cancel := context.WithTimeout(ctx, ex.timeout)
	defer cancel()

	if maxTokens <= 0 {
		maxTokens = ex.cfg.MaxTokens
	}

	resp, err := resilience.DoVal(callCtx, ex.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return ex.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     ex.cfg.Model,
			MaxTokens: maxTokens,
			System:    system,
			Messages: []anthropic.Message{
				{Role: "user", Content: prompt},
			},
		})
	})
	if err != nil {
		return "", anthropic.TokenUsage{}, err
	}

	return extractText(resp), resp.Usage, nil
}
