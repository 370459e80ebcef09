// internal/workers/comparison/generate-explanation/handler.go
package generateexplanation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"compare-workers/internal/common/config"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"
	"compare-workers/internal/explain"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-explanation"

// completeTimeout bounds the complete command separately from the job
// deadline, which the explanation request may already have used up.
const completeTimeout = 5 * time.Second

// Handler never fails a job: bad input and service failures both complete
// with deterministic fallback text.
type Handler struct {
	config    *Config
	logger    logger.Logger
	validator *validation.Validator
	explainer Explainer
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Validator    *validation.Validator
	Explainer    Explainer
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Explainer == nil {
		return nil, fmt.Errorf("%s: explainer is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:    workerConfig,
		logger:    log.WithFields(map[string]interface{}{"worker": TaskType}),
		validator: opts.Validator,
		explainer: opts.Explainer,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("Processing generate-explanation job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output := h.process(job)

	ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
	defer cancel()
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) process(job entities.Job) *Output {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.logger.Warn("Unusable explanation input, completing with fallback", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return toOutput(explain.Fallback(explain.PromptInput{}, explain.SourceNoResult))
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, fmt.Errorf("parse job variables: %w", err)
	}
	if h.validator != nil {
		if result := h.validator.Validate(TaskType, variables); !result.Valid {
			return nil, fmt.Errorf("invalid input: %s", strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return toOutput(h.explainer.Explain(ctx, input.promptInput()))
}

func toOutput(exp explain.Explanation) *Output {
	return &Output{
		Explanation:       exp.Text,
		ExplanationSource: exp.Source,
		Fallback:          exp.Fallback(),
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Completed generate-explanation job", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"source":   output.ExplanationSource,
		"fallback": output.Fallback,
	})
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
