// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"time"
)

// DefaultPollInterval is the interval Watch is usually run with.
const DefaultPollInterval = 2 * time.Second

// Watch refreshes the state right away and then every interval until ctx is
// done. Refresh errors are logged and polling continues. A non-positive
// interval means DefaultPollInterval. It returns the context's error.
func (p *SignerProvider) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.Log().Warnf("refreshing para session: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
