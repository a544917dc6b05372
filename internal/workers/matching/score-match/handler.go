// internal/workers/matching/score-match/handler.go
package scorematch

import (
	"context"
	"encoding/json"
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
	TaskType = "score-match"
)

type Handler struct {
	config     *Config
	engine     *matching.Engine
	snapshots  *storage.SnapshotStore
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, snapshots *storage.SnapshotStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		snapshots:  snapshots,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
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
	if input.RequestID == "" && input.Request == nil {
		return nil, errors.NewValidationError("requestId or inline request is required")
	}
	if input.PropertyID == "" && input.Property == nil {
		return nil, errors.NewValidationError("propertyId or inline property is required")
	}

	req := input.Request
	if req == nil {
		loaded, err := h.snapshots.GetRequest(ctx, input.RequestID)
		if err != nil {
			return nil, err
		}
		req = loaded
	}

	prop := input.Property
	if prop == nil {
		loaded, err := h.snapshots.GetProperty(ctx, input.PropertyID)
		if err != nil {
			return nil, err
		}
		prop = loaded
	}

	breakdown := h.engine.Score(*req, *prop)
	metrics.MatchScores.WithLabelValues(req.Contract).Observe(float64(breakdown.Total))

	h.logger.Info("match scored", map[string]interface{}{
		"requestId":  req.ID,
		"propertyId": prop.ID,
		"score":      breakdown.Total,
		"breakdown":  breakdown,
	})

	return &Output{
		RequestID:  req.ID,
		PropertyID: prop.ID,
		Score:      breakdown.Total,
		Breakdown:  breakdown,
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
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
