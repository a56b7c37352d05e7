// Package worker реализует пул воркеров для отсоединенных фоновых задач.
//
// Диспетчер передает сюда задачи вида "обновить снимок воспроизведения",
// которые переживают породивший их запрос и не имеют обратного пути к
// вызывающей стороне: их ошибки только логируются.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ошибки пула
var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Job представляет фоновую задачу
type Job struct {
	Kind      string
	RequestID string
	Run       func() error
}

// PoolInterface определяет интерфейс пула воркеров
type PoolInterface interface {
	// Start запускает пул воркеров
	Start()

	// Stop останавливает пул воркеров
	Stop()

	// Submit добавляет задачу в очередь
	Submit(job Job) error

	// ProcessedJobs возвращает количество обработанных задач
	ProcessedJobs() int64

	// FailedJobs возвращает количество неудачных задач
	FailedJobs() int64
}

// Pool пул воркеров для фоновых задач
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger
	stopOnce sync.Once
	stopped  bool
	mu       sync.Mutex

	metricsMu sync.RWMutex
	processed int64
	failed    int64
}

// Убеждаемся, что Pool реализует PoolInterface
var _ PoolInterface = (*Pool)(nil)

// NewPool создает новый пул воркеров
func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start запускает пул воркеров
func (p *Pool) Start() {
	p.logger.Info("Starting worker pool", zap.Int("workers", p.workers))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop останавливает пул воркеров
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool")
	p.cancel()

	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.jobQueue)
	})

	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Submit добавляет задачу в очередь
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
		return ErrQueueFull
	}
}

// ProcessedJobs возвращает количество обработанных задач
func (p *Pool) ProcessedJobs() int64 {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.processed
}

// FailedJobs возвращает количество неудачных задач
func (p *Pool) FailedJobs() int64 {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.failed
}

// worker основной цикл воркера
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				p.logger.Debug("Worker stopping", zap.Int("worker_id", id))
				return
			}

			p.processJob(job, id)

		case <-p.ctx.Done():
			p.logger.Debug("Worker context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// processJob обрабатывает задачу
func (p *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()

	p.logger.Debug("Processing background job",
		zap.Int("worker_id", workerID),
		zap.String("kind", job.Kind),
		zap.String("request_id", job.RequestID))

	if err := job.Run(); err != nil {
		p.logger.Error("Background job failed",
			zap.Int("worker_id", workerID),
			zap.String("kind", job.Kind),
			zap.String("request_id", job.RequestID),
			zap.Error(err))

		p.metricsMu.Lock()
		p.failed++
		p.metricsMu.Unlock()
		return
	}

	p.metricsMu.Lock()
	p.processed++
	p.metricsMu.Unlock()

	p.logger.Debug("Background job finished",
		zap.Int("worker_id", workerID),
		zap.String("kind", job.Kind),
		zap.Duration("duration", time.Since(startTime)))
}
