package background

import (
	"context"
	"log"
	"time"

	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
)

type BackgroundTasks struct {
	Runner       *chain.Runner
	ChainTimeout time.Duration
}

func NewBackgroundTasks(runner *chain.Runner, chainTimeout time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		Runner:       runner,
		ChainTimeout: chainTimeout,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startStaleChainMonitor(ctx)
}

func (bt *BackgroundTasks) startStaleChainMonitor(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.Runner.FailStaleChains(ctx, bt.ChainTimeout); err != nil {
				log.Printf("Stale chain monitor error: %v\n", err)
			}
		}
	}
}
