// internal/common/database/health.go
package database

import (
	"context"
	"time"
)

// Pinger is implemented by every backing store the readiness probe checks.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each store with its own timeout and returns the failures
// keyed by store name.
func CheckAll(ctx context.Context, timeout time.Duration, pingers ...Pinger) map[string]string {
	failures := map[string]string{}
	for _, p := range pingers {
		if p == nil {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		if err := p.Ping(pctx); err != nil {
			failures[p.Name()] = err.Error()
		}
		cancel()
	}
	return failures
}
