package worker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWorkerPool(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(2, 10, logger)

	// Запускаем пул
	pool.Start()
	defer pool.Stop()

	// Ждем немного для запуска воркеров
	time.Sleep(100 * time.Millisecond)

	// Тестируем обработку задач
	var results sync.Map
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		jobID := i

		job := Job{
			Kind:      "test",
			RequestID: "req",
			Run: func() error {
				defer wg.Done()
				results.Store(jobID, true)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", jobID, err)
		}
	}

	wg.Wait()

	// Проверяем результаты
	for i := 0; i < 5; i++ {
		if _, ok := results.Load(i); !ok {
			t.Errorf("Job %d was not processed", i)
		}
	}

	// Даем воркерам закончить учет метрик
	time.Sleep(50 * time.Millisecond)

	if processed := pool.ProcessedJobs(); processed != 5 {
		t.Errorf("Expected 5 processed jobs, got %d", processed)
	}
}

func TestWorkerPoolWithErrors(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 5, logger)

	pool.Start()
	defer pool.Stop()

	time.Sleep(100 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)

	job := Job{
		Kind:      "error_test",
		RequestID: "req",
		Run: func() error {
			defer wg.Done()
			return errors.New("test error")
		},
	}

	if err := pool.Submit(job); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}

	wg.Wait()

	// Даем воркеру закончить учет метрик
	time.Sleep(50 * time.Millisecond)

	if failed := pool.FailedJobs(); failed != 1 {
		t.Errorf("Expected 1 failed job, got %d", failed)
	}
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 5, logger)

	pool.Start()

	// Останавливаем пул
	pool.Stop()

	// Пытаемся отправить задачу после остановки
	job := Job{
		Kind: "test",
		Run: func() error {
			return nil
		},
	}

	if err := pool.Submit(job); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
}

func TestWorkerPoolQueueFull(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 1, logger) // Очень маленькая очередь

	pool.Start()
	defer pool.Stop()

	time.Sleep(100 * time.Millisecond)

	// Создаем каналы для синхронизации
	jobStarted := make(chan struct{})
	release := make(chan struct{})

	// Занимаем единственного воркера долгой задачей
	job1 := Job{
		Kind: "long",
		Run: func() error {
			close(jobStarted)
			<-release
			return nil
		},
	}

	if err := pool.Submit(job1); err != nil {
		t.Fatalf("Failed to submit first job: %v", err)
	}

	<-jobStarted

	// Заполняем очередь
	if err := pool.Submit(Job{Kind: "fill", Run: func() error { return nil }}); err != nil {
		t.Fatalf("Failed to fill the queue: %v", err)
	}

	// Следующая задача не влезает
	if err := pool.Submit(Job{Kind: "overflow", Run: func() error { return nil }}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}

	close(release)
}
