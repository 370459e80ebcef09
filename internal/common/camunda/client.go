// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"compare-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  10,
	InitialDelay: 2 * time.Second,
	MaxDelay:     30 * time.Second,
}

// RetryWithBackoff runs operation until it succeeds, the attempts are spent,
// or ctx is done. The delay doubles after each failure up to MaxDelay.
func RetryWithBackoff(ctx context.Context, rc RetryConfig, log logger.Logger, operationName string, operation func(context.Context) error) error {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = 1
	}
	delay := rc.InitialDelay
	var err error

	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if attempt == rc.MaxAttempts {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     attempt,
			"maxAttempts": rc.MaxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, attempt, ctx.Err())
		}

		delay *= 2
		if rc.MaxDelay > 0 && delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, rc.MaxAttempts, err)
}

// Connect creates a Zeebe client and waits until the gateway answers a
// topology request.
func Connect(ctx context.Context, gatewayAddress string, rc RetryConfig, log logger.Logger) (zbc.Client, error) {
	var client zbc.Client
	err := RetryWithBackoff(ctx, rc, log, "zeebe connection", func(ctx context.Context) error {
		c, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         gatewayAddress,
			UsePlaintextConnection: true,
		})
		if err != nil {
			return err
		}

		tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if _, err := c.NewTopologyCommand().Send(tctx); err != nil {
			_ = c.Close()
			return fmt.Errorf("zeebe gateway %s: %w", gatewayAddress, err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// IsTransient reports whether a gateway error is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// Pinger adapts a Zeebe client to the readiness probe.
type Pinger struct {
	Client zbc.Client
}

func (p Pinger) Name() string { return "zeebe" }

func (p Pinger) Ping(ctx context.Context) error {
	if _, err := p.Client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe topology failed: %w", err)
	}
	return nil
}
