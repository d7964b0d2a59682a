// Package chain executes scheduled sequences of external calls. A chain is
// persisted as a descriptor, its steps run strictly in order, the remaining
// steps are skipped after the first failure, and the completion callback
// registered for the chain kind fires exactly once with the aggregate
// outcome. There is no cancellation: once scheduled, a chain runs to
// completion and its callback always fires.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
)

// Step is one external call of a chain. Steps run outside this service's
// control and may fail independently.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// CompletionFunc observes the aggregate outcome of a chain. chainErr is nil
// iff every step succeeded. Completions must re-validate any invariant they
// depend on: unrelated calls may have mutated state since the chain was
// scheduled.
type CompletionFunc func(ctx context.Context, chain *domain.CallChain, chainErr error) string

type job struct {
	chainID string
	steps   []Step
}

type Runner struct {
	chainRepo domain.CallChainRepository
	metrics   *metrics.ContractMetrics

	mu          sync.RWMutex
	completions map[domain.ChainKind]CompletionFunc

	queue chan job
}

func NewRunner(chainRepo domain.CallChainRepository, contractMetrics *metrics.ContractMetrics) *Runner {
	return &Runner{
		chainRepo:   chainRepo,
		metrics:     contractMetrics,
		completions: make(map[domain.ChainKind]CompletionFunc),
		queue:       make(chan job, 64),
	}
}

// RegisterCompletion binds the privileged completion entry point for a chain
// kind. Only the runner dispatches completions, by the chain id it issued;
// no external caller can reach them.
func (r *Runner) RegisterCompletion(kind domain.ChainKind, fn CompletionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions[kind] = fn
}

// Schedule persists the chain descriptor and enqueues it for execution. It
// returns as soon as the chain is scheduled; the outcome is only observable
// through the completion callback and the chain record.
func (r *Runner) Schedule(chain *domain.CallChain, steps []Step) error {
	now := time.Now()
	chain.Status = domain.ChainStatusPending
	chain.CreatedAt = now
	chain.UpdatedAt = now
	chain.Steps = make([]domain.ChainStep, len(steps))
	for i, step := range steps {
		chain.Steps[i] = domain.ChainStep{Name: step.Name, Status: domain.StepStatusScheduled}
	}

	if err := r.chainRepo.CreateChain(chain); err != nil {
		return fmt.Errorf("failed to persist chain: %w", err)
	}

	r.metrics.ChainsScheduledTotal.WithLabelValues(string(chain.Kind)).Inc()
	r.queue <- job{chainID: chain.ID, steps: steps}
	return nil
}

// Run drains the queue until the context is done. Chains execute one at a
// time, so a chain's callback never runs concurrently with its own steps.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			r.execute(ctx, j)
		}
	}
}

func (r *Runner) execute(ctx context.Context, j job) {
	chain, err := r.chainRepo.GetChainByID(j.chainID)
	if err != nil {
		slog.Error("chain vanished before execution", "chain_id", j.chainID, "error", err.Error())
		return
	}
	if chain.Status != domain.ChainStatusPending {
		// stale monitor already resolved it
		return
	}

	chain.Status = domain.ChainStatusRunning
	chain.UpdatedAt = time.Now()
	if err := r.chainRepo.UpdateChain(chain); err != nil {
		slog.Error("failed to mark chain running", "chain_id", chain.ID, "error", err.Error())
	}

	var chainErr error
	for i, step := range j.steps {
		if chainErr != nil {
			chain.Steps[i].Status = domain.StepStatusSkipped
			continue
		}

		start := time.Now()
		err := step.Run(ctx)
		r.metrics.ChainStepDuration.
			WithLabelValues(string(chain.Kind), step.Name).
			Observe(time.Since(start).Seconds())

		if err != nil {
			chainErr = fmt.Errorf("step %q failed: %w", step.Name, err)
			chain.Steps[i].Status = domain.StepStatusFailed
			chain.Steps[i].Error = err.Error()
			slog.Error("chain step failed",
				"chain_id", chain.ID,
				"kind", string(chain.Kind),
				"step", step.Name,
				"error", err.Error())
			continue
		}
		chain.Steps[i].Status = domain.StepStatusSucceeded
	}

	r.complete(ctx, chain, chainErr)
}

func (r *Runner) complete(ctx context.Context, chain *domain.CallChain, chainErr error) {
	final := domain.ChainStatusSucceeded
	if chainErr != nil {
		final = domain.ChainStatusFailed
	}

	// claim the terminal transition before touching the callback: when an
	// in-flight step outlives the stale monitor's deadline, both the runner
	// and the monitor reach here for the same chain, and only the claimant
	// may run the completion
	claimed, err := r.chainRepo.ClaimCompletion(chain.ID, final)
	if err != nil {
		slog.Error("failed to claim chain completion", "chain_id", chain.ID, "error", err.Error())
		return
	}
	if !claimed {
		slog.Warn("chain already finalized", "chain_id", chain.ID, "kind", string(chain.Kind))
		return
	}
	chain.Status = final

	r.mu.RLock()
	completion := r.completions[chain.Kind]
	r.mu.RUnlock()

	if completion != nil {
		chain.Result = completion(ctx, chain, chainErr)
	}

	now := time.Now()
	chain.UpdatedAt = now
	chain.CompletedAt = &now
	if err := r.chainRepo.UpdateChain(chain); err != nil {
		slog.Error("failed to finalize chain", "chain_id", chain.ID, "error", err.Error())
	}

	r.metrics.ChainsCompletedTotal.
		WithLabelValues(string(chain.Kind), string(chain.Status)).Inc()
}

// FailStaleChains resolves chains that never finished, for example after a
// crash between scheduling and execution. The completion callback still
// fires so compensation is not lost.
func (r *Runner) FailStaleChains(ctx context.Context, olderThan time.Duration) error {
	stuck, err := r.chainRepo.FindStuckChains(time.Now().Add(-olderThan))
	if err != nil {
		return err
	}

	for _, chain := range stuck {
		slog.Warn("failing stale chain", "chain_id", chain.ID, "kind", string(chain.Kind))
		r.complete(ctx, chain, fmt.Errorf("chain timed out after %s", olderThan))
	}
	return nil
}
