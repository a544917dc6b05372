// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matching-workers/internal/common/camunda"
	"matching-workers/internal/common/config"
	"matching-workers/internal/common/database"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/observability"
	"matching-workers/internal/matching"
	"matching-workers/internal/storage"
	"matching-workers/pkg/registry"

	cm "matching-workers/internal/workers/matching/create-match"
	eu "matching-workers/internal/workers/matching/estimate-urgency"
	rc "matching-workers/internal/workers/matching/rank-candidates"
	sm "matching-workers/internal/workers/matching/score-match"
	tm "matching-workers/internal/workers/matching/transition-match"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded", zap.Int("activities", len(reg.Activities)))

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Matching engine & shared storage ---
	engine, err := matching.NewEngine(cfg.Matching.Weights, matching.ConditionScale(cfg.Matching.ConditionScale))
	if err != nil {
		zapLog.Fatal("matching engine init failed", zap.Error(err))
	}

	snapshots := storage.NewSnapshotStore(
		pg.DB, redis.Client,
		time.Duration(cfg.Matching.SnapshotTTL)*time.Second,
		log,
	)
	matches := storage.NewMatchRepository(pg.DB, log)
	candidates := storage.NewCandidateSearch(esClient.Client, cfg.Matching.PropertyIndex, log)

	// --- START: Register ALL 5 Workers ---

	var workers []*camunda.CamundaWorker

	if cfg.Workers[sm.TaskType].Enabled {
		handler := sm.NewHandler(
			&sm.Config{
				Timeout: time.Duration(cfg.Workers[sm.TaskType].Timeout) * time.Millisecond,
			},
			engine, snapshots, log,
		)
		workers = append(workers, startWorker(zeebeClient, sm.TaskType, cfg.Workers[sm.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[rc.TaskType].Enabled {
		handler := rc.NewHandler(
			&rc.Config{
				Timeout:       time.Duration(cfg.Workers[rc.TaskType].Timeout) * time.Millisecond,
				MaxCandidates: cfg.Matching.MaxCandidates,
			},
			engine, snapshots, candidates, log,
		)
		workers = append(workers, startWorker(zeebeClient, rc.TaskType, cfg.Workers[rc.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[eu.TaskType].Enabled {
		handler := eu.NewHandler(
			&eu.Config{
				Timeout: time.Duration(cfg.Workers[eu.TaskType].Timeout) * time.Millisecond,
			},
			snapshots, log,
		)
		workers = append(workers, startWorker(zeebeClient, eu.TaskType, cfg.Workers[eu.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[cm.TaskType].Enabled {
		handler := cm.NewHandler(
			&cm.Config{
				Timeout: time.Duration(cfg.Workers[cm.TaskType].Timeout) * time.Millisecond,
			},
			engine, snapshots, matches, log,
		)
		workers = append(workers, startWorker(zeebeClient, cm.TaskType, cfg.Workers[cm.TaskType], handler.Handle, zapLog))
	}

	if cfg.Workers[tm.TaskType].Enabled {
		handler := tm.NewHandler(
			&tm.Config{
				Timeout: time.Duration(cfg.Workers[tm.TaskType].Timeout) * time.Millisecond,
			},
			matches, log,
		)
		workers = append(workers, startWorker(zeebeClient, tm.TaskType, cfg.Workers[tm.TaskType], handler.Handle, zapLog))
	}

	zapLog.Info("All 5 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		if w != nil {
			w.Stop()
		}
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) *camunda.CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}
	return camunda.NewWorker(client, taskType, wcfg, handlerFunc, log)
}
