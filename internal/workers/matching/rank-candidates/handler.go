// internal/workers/matching/rank-candidates/handler.go
package rankcandidates

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
)

const (
	TaskType = "rank-candidates"
)

// CandidateSource abstracts the property index lookup so tests can feed
// candidates without a live Elasticsearch.
type CandidateSource interface {
	Search(ctx context.Context, req models.SearchRequest, limit int) ([]models.Property, error)
}

type Handler struct {
	config     *Config
	engine     *matching.Engine
	snapshots  *storage.SnapshotStore
	candidates CandidateSource
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *matching.Engine, snapshots *storage.SnapshotStore, candidates CandidateSource, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		snapshots:  snapshots,
		candidates: candidates,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

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

	req := input.Request
	if req == nil {
		loaded, err := h.snapshots.GetRequest(ctx, input.RequestID)
		if err != nil {
			return nil, err
		}
		req = loaded
	}

	limit := input.Limit
	if limit <= 0 || limit > h.config.MaxCandidates {
		limit = h.config.MaxCandidates
	}

	props := input.Properties
	if len(props) == 0 {
		found, err := h.candidates.Search(ctx, *req, limit)
		if err != nil {
			return nil, err
		}
		props = found
	}
	metrics.CandidatesRanked.WithLabelValues(req.Contract).Observe(float64(len(props)))

	ranked := h.engine.Rank(*req, props)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	candidates := make([]Candidate, 0, len(ranked))
	for _, rc := range ranked {
		candidates = append(candidates, Candidate{
			PropertyID: rc.Property.ID,
			Score:      rc.Score.Total,
			Breakdown:  rc.Score,
		})
	}

	h.logger.Info("candidates ranked", map[string]interface{}{
		"requestId": req.ID,
		"scored":    len(props),
		"returned":  len(candidates),
	})

	return &Output{
		RequestID:  req.ID,
		Candidates: candidates,
		Total:      len(props),
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
