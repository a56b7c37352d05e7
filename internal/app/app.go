// Package app собирает компоненты приложения и управляет их жизненным циклом.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"remotify/internal/auth"
	"remotify/internal/config"
	"remotify/internal/dispatcher"
	"remotify/internal/gateway/lyrics"
	spotifygw "remotify/internal/gateway/spotify"
	"remotify/internal/state"
	"remotify/internal/worker"
)

// App представляет собранное приложение: состояние, пул фоновых задач,
// диспетчер и очередь запросов фронтенда.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	state      *state.State
	pool       worker.PoolInterface
	dispatcher dispatcher.Interface
	requests   chan dispatcher.Request
}

// New создает приложение: авторизует клиента API и связывает компоненты
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	api, err := auth.NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("authorize spotify client: %w", err)
	}

	st := state.New(cfg.CacheCapacity)
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize, logger)

	client := spotifygw.NewClient(api, nil, cfg.RateLimit, cfg.RequestTimeout, logger)
	lyricsClient := lyrics.NewClient(cfg.LyricsBaseURL, logger)

	app := &App{
		cfg:        cfg,
		logger:     logger,
		state:      st,
		pool:       pool,
		dispatcher: dispatcher.New(client, lyricsClient, pool, st, cfg, logger),
		requests:   make(chan dispatcher.Request, cfg.QueueSize),
	}

	logger.Info("Application components created")
	return app, nil
}

// State возвращает разделяемое состояние для фронтенда
func (a *App) State() *state.State {
	return a.state
}

// Requests возвращает очередь запросов для фронтенда
func (a *App) Requests() chan<- dispatcher.Request {
	return a.requests
}

// Start запускает приложение и обрабатывает запросы до отмены контекста.
// Ошибки отдельных запросов не останавливают цикл: они уже залогированы
// диспетчером, фронтенд увидит их через неизменившееся состояние.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Starting application")

	a.pool.Start()
	defer a.pool.Stop()

	a.bootstrap(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Application stopping")
			return nil
		case req := <-a.requests:
			if err := a.dispatcher.Handle(ctx, req); err != nil {
				// Детали уже залогированы диспетчером; здесь фиксируется
				// только сам факт, цикл продолжает работу
				a.logger.Debug("Request finished with error",
					zap.String("request", req.Kind()),
					zap.Error(err))
			}
		}
	}
}

// bootstrap наполняет состояние стартовыми данными и подключает
// устройство воспроизведения
func (a *App) bootstrap(ctx context.Context) {
	startup := []dispatcher.Request{
		dispatcher.GetCurrentUser{},
		dispatcher.GetDevices{},
		dispatcher.GetCurrentPlayback{},
		dispatcher.ConnectDevice{},
	}

	for _, req := range startup {
		select {
		case a.requests <- req:
		default:
			a.logger.Warn("Request queue is full, skipping startup request",
				zap.String("request", req.Kind()))
		}
	}
}
