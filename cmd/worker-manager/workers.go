// cmd/worker-manager/workers.go
package main

import (
	"fmt"

	"compare-workers/internal/catalog"
	"compare-workers/internal/common/camunda"
	"compare-workers/internal/common/config"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"
	"compare-workers/internal/explain"
	"compare-workers/internal/ranking"
	"compare-workers/internal/session"

	mc "compare-workers/internal/workers/catalog/manage-catalog"
	dr "compare-workers/internal/workers/communication/deliver-report"
	ge "compare-workers/internal/workers/comparison/generate-explanation"
	ri "compare-workers/internal/workers/comparison/rank-items"
	si "compare-workers/internal/workers/comparison/submit-items"
)

type dependencies struct {
	cfg       *config.Config
	log       logger.Logger
	store     *catalog.PostgresStore
	attrs     *catalog.CachedCatalog
	sessions  *session.Store
	selector  *ranking.Selector
	validator *validation.Validator
	requester *explain.Requester
}

type workerSpec struct {
	taskType string
	build    func(d *dependencies) (camunda.HandlerFunc, error)
}

var workerSpecs = []workerSpec{
	{si.TaskType, func(d *dependencies) (camunda.HandlerFunc, error) {
		h, err := si.NewHandler(si.HandlerOptions{
			AppConfig: d.cfg,
			Validator: d.validator,
			Logger:    d.log,
			Dependencies: si.ServiceDependencies{
				Categories: d.store,
				Attributes: d.attrs,
				Items:      d.store,
				Sessions:   d.sessions,
			},
		})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}},
	{ri.TaskType, func(d *dependencies) (camunda.HandlerFunc, error) {
		h, err := ri.NewHandler(ri.HandlerOptions{
			AppConfig: d.cfg,
			Validator: d.validator,
			Logger:    d.log,
			Dependencies: ri.ServiceDependencies{
				Sessions:   d.sessions,
				Categories: d.store,
				Attributes: d.attrs,
				Items:      d.store,
				Selector:   d.selector,
			},
		})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}},
	{ge.TaskType, func(d *dependencies) (camunda.HandlerFunc, error) {
		h, err := ge.NewHandler(ge.HandlerOptions{
			AppConfig: d.cfg,
			Validator: d.validator,
			Explainer: d.requester,
			Logger:    d.log,
		})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}},
	{dr.TaskType, func(d *dependencies) (camunda.HandlerFunc, error) {
		h, err := dr.NewHandler(dr.HandlerOptions{
			AppConfig: d.cfg,
			Validator: d.validator,
			Logger:    d.log,
		})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}},
	{mc.TaskType, func(d *dependencies) (camunda.HandlerFunc, error) {
		h, err := mc.NewHandler(mc.HandlerOptions{
			AppConfig: d.cfg,
			Validator: d.validator,
			Logger:    d.log,
			Dependencies: mc.ServiceDependencies{
				Admin:      d.store,
				Categories: d.store,
				Cache:      d.attrs,
			},
		})
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}},
}

// registerWorkers builds and opens every enabled worker. Disabled workers
// are not constructed, so their external clients are never created.
func registerWorkers(workers *camunda.Workers, d *dependencies) error {
	for _, ws := range workerSpecs {
		wcfg := config.GetWorkerConfig(d.cfg, ws.taskType)
		if !wcfg.Enabled {
			d.log.Info("worker disabled", map[string]interface{}{"taskType": ws.taskType})
			continue
		}
		handler, err := ws.build(d)
		if err != nil {
			return fmt.Errorf("create %s handler: %w", ws.taskType, err)
		}
		workers.Start(ws.taskType, wcfg, handler)
	}
	return nil
}
