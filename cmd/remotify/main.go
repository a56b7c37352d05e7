// Package main запускает remotify.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"remotify/internal/app"
	"remotify/internal/config"
	"remotify/pkg/logger"
)

func main() {
	// Инициализация логгера
	log := logger.New()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Сборка приложения
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	// Запуск цикла обработки запросов
	if err := application.Start(ctx); err != nil {
		log.Error("Application stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}
