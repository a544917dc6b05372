// internal/workers/matching/create-match/handler.go
package creatematch

import (
	"context"
	"encoding/json"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/matching"
	"matching-workers/internal/models"
	"matching-workers/internal/storage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-match"
)

type Handler struct {
	config     *Config
	engine     *matching.Engine
	snapshots  *storage.SnapshotStore
	matches    *storage.MatchRepository
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, engine *matching.Engine, snapshots *storage.SnapshotStore, matches *storage.MatchRepository, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		snapshots:  snapshots,
		matches:    matches,
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

	exists, err := h.matches.ExistsPair(ctx, req.ID, prop.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewDuplicateMatchError(req.ID, prop.ID)
	}

	breakdown := h.engine.Score(*req, *prop)

	now := h.now().UTC()
	match := &models.Match{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		PropertyID: prop.ID,
		Score:      breakdown,
		Status:     models.StatusSuggested,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}

	if err := h.matches.Insert(ctx, match); err != nil {
		return nil, err
	}

	h.logger.Info("match created", map[string]interface{}{
		"matchId":    match.ID,
		"requestId":  req.ID,
		"propertyId": prop.ID,
		"score":      breakdown.Total,
	})

	return &Output{
		MatchID:    match.ID,
		RequestID:  req.ID,
		PropertyID: prop.ID,
		Score:      breakdown.Total,
		Breakdown:  breakdown,
		Status:     match.Status,
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
