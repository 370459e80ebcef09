// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"compare-workers/internal/common/config"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/metrics"
	"compare-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc is the signature every worker's Handle method has.
type HandlerFunc func(client worker.JobClient, job entities.Job)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusThrown    = "bpmn_error"
	statusUnknown   = "unknown"
)

// statusClient records which terminal command a handler issued.
type statusClient struct {
	worker.JobClient
	mu     sync.Mutex
	status string
}

func (c *statusClient) set(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *statusClient) get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == "" {
		return statusUnknown
	}
	return c.status
}

func (c *statusClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.set(statusCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *statusClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.set(statusFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *statusClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.set(statusThrown)
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps a handler with Prometheus and OTel job metrics.
func Instrument(taskType string, handler HandlerFunc, obs *observability.Observability) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		sc := &statusClient{JobClient: client}
		handler(sc, job)

		status := sc.get()
		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		switch status {
		case statusCompleted:
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		case statusFailed, statusThrown:
			metrics.WorkerJobsFailed.WithLabelValues(taskType, status).Inc()
		}

		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, status)
		obs.RecordJobDuration(ctx, taskType, elapsed, status)
	}
}

// Workers tracks opened job workers so they can be closed on shutdown.
type Workers struct {
	client zbc.Client
	obs    *observability.Observability
	log    logger.Logger
	opened []worker.JobWorker
	names  []string
}

func NewWorkers(client zbc.Client, obs *observability.Observability, log logger.Logger) *Workers {
	return &Workers{client: client, obs: obs, log: log}
}

// Start opens a job worker for taskType unless it is disabled in config.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) bool {
	if !wcfg.Enabled {
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler, w.obs))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.opened = append(w.opened, jw)
	w.names = append(w.names, taskType)
	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

func (w *Workers) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Close stops polling and waits for in-flight jobs.
func (w *Workers) Close() {
	for i, jw := range w.opened {
		jw.Close()
		jw.AwaitClose()
		w.log.Info("worker stopped", map[string]interface{}{"taskType": w.names[i]})
	}
	w.opened = nil
}
