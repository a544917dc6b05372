// internal/workers/matching/estimate-urgency/handler.go
package estimateurgency

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/matching"
	"matching-workers/internal/storage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "estimate-urgency"
)

type Handler struct {
	config     *Config
	snapshots  *storage.SnapshotStore
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, snapshots *storage.SnapshotStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		snapshots:  snapshots,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewValidationError("parse input: "+err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.PropertyID == "" && input.Activity == nil {
		return nil, errors.NewValidationError("propertyId or inline activity is required")
	}

	now := h.now().UTC()
	if input.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, input.AsOf)
		if err != nil {
			return nil, errors.NewValidationError("asOf must be RFC 3339: " + err.Error())
		}
		now = parsed.UTC()
	}

	activity := input.Activity
	if activity == nil {
		prop, err := h.snapshots.GetProperty(ctx, input.PropertyID)
		if err != nil {
			return nil, err
		}
		activity = prop.Activity
	}

	urgency := matching.EstimateUrgency(activity, now)
	metrics.UrgencyLevels.WithLabelValues(strconv.Itoa(urgency)).Inc()

	var last time.Time
	for _, entry := range activity {
		if !entry.Date.After(now) && entry.Date.After(last) {
			last = entry.Date
		}
	}

	h.logger.Info("urgency estimated", map[string]interface{}{
		"propertyId":   input.PropertyID,
		"entries":      len(activity),
		"urgency":      urgency,
		"recencyScore": matching.RecencyScore(last, now),
	})

	return &Output{
		PropertyID: input.PropertyID,
		Urgency:    urgency,
		IsNew:      len(activity) == 0,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := "INTERNAL_ERROR"
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
