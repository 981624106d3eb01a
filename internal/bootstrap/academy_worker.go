package bootstrap

import (
	"context"
	"os"
	"sync"
	"time"

	"academy_server/adapter/in/worker"
	"academy_server/adapter/out/messaging"
	"academy_server/config"
	"academy_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Worker runs the classification pool and, when Redis is configured, the
// stream consumer feeding it.
type Worker struct {
	pool     *worker.Pool
	consumer *messaging.Consumer
	deps     *Dependencies
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	zlog     zerolog.Logger
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "worker").Logger()

	handler := worker.NewHandler(deps.AnalysisProcessor)

	poolConfig := worker.DefaultPoolConfig()
	if cfg.WorkerMax > 0 {
		poolConfig.MaxWorkers = cfg.WorkerMax
	}
	if cfg.WorkerQueueSize > 0 {
		poolConfig.QueueSize = cfg.WorkerQueueSize
	}

	pool := worker.NewPool(handler, poolConfig, zlog)

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		pool:   pool,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}

	if deps.Redis != nil {
		w.consumer = messaging.NewConsumer(deps.Redis, &messaging.ConsumerConfig{
			Group:                "academy-workers",
			Consumer:             cfg.WorkerID,
			Streams:              []string{messaging.StreamFeedbackAnalyze},
			Handler:              &streamHandler{worker: w},
			Logger:               zlog,
			BatchSize:            cfg.ConsumerBatchSize,
			BlockTime:            time.Duration(cfg.ConsumerBlockMS) * time.Millisecond,
			MaxRetries:           cfg.ConsumerMaxRetries,
			PendingCheckInterval: time.Duration(cfg.ConsumerPendingCheckSec) * time.Second,
		})
		logger.Info("Redis Stream Consumer configured")
	} else {
		logger.Warn("Redis not available, worker will only process direct submissions")
	}

	return w, cleanup, nil
}

// streamHandler adapts Redis Stream messages to the worker pool.
type streamHandler struct {
	worker *Worker
}

func (h *streamHandler) Handle(ctx context.Context, stream string, data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.WithError(err).Error("Failed to parse stream payload from %s", stream)
		return err
	}

	msg := worker.NewMessage(streamToJobType(stream), payload)

	if !h.worker.pool.Submit(msg) {
		logger.Error("Failed to submit job to pool: %s", msg.Type)
	}

	return nil
}

// streamToJobType maps Redis stream names to job types.
func streamToJobType(stream string) string {
	switch stream {
	case messaging.StreamFeedbackAnalyze:
		return worker.JobFeedbackAnalyze
	default:
		return stream
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pool.Start()
	}()

	if w.consumer != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.zlog.Info().Msg("Starting Redis Stream Consumer...")
			if err := w.consumer.Run(w.ctx); err != nil && err != context.Canceled {
				w.zlog.Error().Err(err).Msg("Redis Stream Consumer error")
			}
		}()
	}

	<-w.ctx.Done()
}

func (w *Worker) Stop() {
	w.cancel()
	w.pool.Stop()
	w.wg.Wait()
}

func (w *Worker) Submit(msg *worker.Message) bool {
	if msg.IsPriority() {
		return w.pool.SubmitPriority(msg)
	}
	return w.pool.Submit(msg)
}

func (w *Worker) GetMetrics() worker.PoolMetrics {
	return w.pool.GetMetrics()
}

func (w *Worker) Dependencies() *Dependencies {
	return w.deps
}
