// internal/workers/communication/deliver-report/handler.go
package deliverreport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"compare-workers/internal/common/aws"
	"compare-workers/internal/common/config"
	"compare-workers/internal/common/errors"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "deliver-report"

type Handler struct {
	config    *Config
	logger    logger.Logger
	validator *validation.Validator
	errors    *errors.ErrorHandler
	service   *Service
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Validator    *validation.Validator
	Dependencies ServiceDependencies
	Logger       logger.Logger
}

// NewHandler builds SES and SNS senders from the default AWS credential
// chain for enabled channels the caller did not supply.
func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"worker": TaskType})

	deps := opts.Dependencies
	deps.Logger = log
	if workerConfig.EmailEnabled && deps.Email == nil {
		mailer, err := aws.NewSESMailer(context.Background(), workerConfig.AWSRegion, workerConfig.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TaskType, err)
		}
		deps.Email = mailer
	}
	if workerConfig.SMSEnabled && deps.SMS == nil {
		sender, err := aws.NewSNSSender(context.Background(), workerConfig.AWSRegion, workerConfig.SMSSenderID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TaskType, err)
		}
		deps.SMS = sender
	}

	return &Handler{
		config:    workerConfig,
		logger:    log,
		validator: opts.Validator,
		errors:    errors.NewErrorHandler(log),
		service:   NewService(deps, workerConfig),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing deliver-report job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}
	if h.validator != nil {
		if result := h.validator.Validate(TaskType, variables); !result.Valid {
			return nil, errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("decode input: %v", err))
	}
	input.RecipientEmail = strings.TrimSpace(input.RecipientEmail)
	input.RecipientPhone = strings.TrimSpace(input.RecipientPhone)
	if input.RecipientEmail != "" && !validation.ValidateEmail(input.RecipientEmail) {
		return nil, errors.NewInvalidInputError("recipientEmail: invalid email address")
	}
	if input.RecipientPhone != "" && !validation.ValidatePhone(input.RecipientPhone) {
		return nil, errors.NewInvalidInputError("recipientPhone: invalid phone number")
	}
	return &input, nil
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

	h.logger.Info("Completed deliver-report job", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"reportId": output.ReportID,
		"status":   output.Status,
		"channels": output.Channels,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}
