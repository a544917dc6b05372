// internal/workers/matching/transition-match/handler.go
package transitionmatch

import (
	"context"
	"encoding/json"
	"time"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/lifecycle"
	"matching-workers/internal/storage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "transition-match"
)

type Handler struct {
	config     *Config
	matches    *storage.MatchRepository
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, matches *storage.MatchRepository, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
	if input.MatchID == "" {
		return nil, errors.NewValidationError("matchId is required")
	}
	if input.Reaction == "" && input.TargetStatus == "" {
		return nil, errors.NewValidationError("targetStatus or reaction is required")
	}

	match, err := h.matches.Get(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}

	loadedVersion := match.Version
	from := match.Status
	now := h.now().UTC()

	if input.Reaction != "" {
		err = lifecycle.RecordReaction(match, input.Reaction, input.RejectionReason, now)
	} else {
		err = lifecycle.Apply(match, input.TargetStatus, input.AdminClose, now)
	}
	if err != nil {
		return nil, err
	}

	if err := h.matches.UpdateWithVersion(ctx, match, loadedVersion); err != nil {
		return nil, err
	}

	metrics.MatchTransitions.WithLabelValues(from, match.Status).Inc()
	h.logger.Info("match transitioned", map[string]interface{}{
		"matchId": match.ID,
		"from":    from,
		"to":      match.Status,
		"version": match.Version,
	})

	return &Output{
		MatchID: match.ID,
		Status:  match.Status,
		Version: match.Version,
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
