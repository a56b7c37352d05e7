package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"remotify/internal/state"
	"remotify/internal/worker"
)

// handlePlayerAction выполняет действие над воспроизведением.
//
// Кроме переноса воспроизведения все действия требуют активного
// устройства: адресация берется из последнего снимка воспроизведения.
func (d *Dispatcher) handlePlayerAction(ctx context.Context, log *zap.Logger, action PlayerAction) error {
	if transfer, ok := action.(TransferPlayback); ok {
		return d.api.TransferPlayback(ctx, transfer.DeviceID, transfer.ForcePlay)
	}

	playback, ok := d.state.Player.Simplified()
	if !ok {
		return ErrNoActivePlayback
	}

	log.Debug("Player action",
		zap.String("action", action.ActionName()),
		zap.String("device_id", playback.DeviceID))

	switch a := action.(type) {
	case NextTrack:
		return d.api.NextTrack(ctx, playback.DeviceID)
	case PreviousTrack:
		return d.api.PreviousTrack(ctx, playback.DeviceID)
	case ResumePause:
		if playback.IsPlaying {
			return d.api.PausePlayback(ctx, playback.DeviceID)
		}
		return d.api.ResumePlayback(ctx, playback.DeviceID)
	case SeekTrack:
		return d.api.SeekTrack(ctx, a.PositionMs, playback.DeviceID)
	case CycleRepeat:
		return d.api.SetRepeat(ctx, playback.RepeatState.Next(), playback.DeviceID)
	case ToggleShuffle:
		return d.api.SetShuffle(ctx, !playback.ShuffleState, playback.DeviceID)
	case SetVolume:
		return d.api.SetVolume(ctx, a.Percent, playback.DeviceID)
	case StartPlayback:
		if err := d.api.StartPlayback(ctx, a.Target, playback.DeviceID); err != nil {
			return err
		}
		// Запуск нового контекста сбрасывает режим перемешивания
		// на стороне сервиса, прежнее значение восстанавливается.
		return d.api.SetShuffle(ctx, playback.ShuffleState, playback.DeviceID)
	default:
		return fmt.Errorf("unknown player action %q", action.ActionName())
	}
}

// handleConnectDevice подключает устройство воспроизведения.
//
// Запрос best-effort: после инициализации устройство может появиться в
// списке не сразу, поэтому попытки повторяются с паузой, а исчерпание
// попыток не считается ошибкой запроса.
func (d *Dispatcher) handleConnectDevice(ctx context.Context, log *zap.Logger, requestID, deviceID string) error {
	log.Info("Connecting device", zap.String("device_id", deviceID))

	for attempt := 1; attempt <= d.cfg.ConnectMaxAttempts; attempt++ {
		select {
		case <-time.After(d.cfg.ConnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}

		id := deviceID
		if id == "" {
			found, err := d.api.FindAvailableDevice(ctx, d.cfg.DefaultDevice)
			if err != nil {
				log.Warn("Failed to list devices",
					zap.Int("attempt", attempt),
					zap.Error(err))
				continue
			}
			id = found
		}

		if id == "" {
			log.Debug("No available device", zap.Int("attempt", attempt))
			continue
		}

		if err := d.api.TransferPlayback(ctx, id, true); err != nil {
			log.Warn("Failed to connect device",
				zap.String("device_id", id),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		log.Info("Device connected",
			zap.String("device_id", id),
			zap.Int("attempt", attempt))
		d.schedulePlaybackRefresh(log, requestID)
		return nil
	}

	log.Warn("Gave up connecting device", zap.Int("attempts", d.cfg.ConnectMaxAttempts))
	return nil
}

// schedulePlaybackRefresh ставит фоновую задачу обновления снимка.
// Задача переживает запрос; переполнение очереди лишь логируется.
func (d *Dispatcher) schedulePlaybackRefresh(log *zap.Logger, requestID string) {
	job := worker.Job{
		Kind:      "playback-refresh",
		RequestID: requestID,
		Run: func() error {
			d.refreshLoop()
			return nil
		},
	}

	if err := d.pool.Submit(job); err != nil {
		log.Warn("Failed to schedule playback refresh", zap.Error(err))
	}
}

// refreshLoop несколько раундов обновляет снимок воспроизведения и
// обложку. Ошибки раундов только логируются: задача отсоединена и
// обратного пути к вызывающей стороне нет.
func (d *Dispatcher) refreshLoop() {
	ctx := context.Background()

	for round := 0; round < d.cfg.RefreshRounds; round++ {
		time.Sleep(d.cfg.RefreshDelay)

		if err := d.refreshPlayback(ctx); err != nil {
			d.logger.Error("Failed to refresh playback",
				zap.Int("round", round),
				zap.Error(err))
			continue
		}

		if err := d.refreshCoverImage(ctx); err != nil {
			d.logger.Error("Failed to refresh cover image",
				zap.Int("round", round),
				zap.Error(err))
		}
	}
}

// refreshPlayback заменяет снимок воспроизведения результатом запроса
func (d *Dispatcher) refreshPlayback(ctx context.Context) error {
	playback, err := d.api.CurrentPlayback(ctx)
	if err != nil {
		return err
	}

	d.state.Player.SetPlayback(playback)
	return nil
}

// refreshCoverImage загружает обложку текущего трека в кэш изображений
func (d *Dispatcher) refreshCoverImage(ctx context.Context) error {
	url := d.state.Player.CoverURL()
	if url == "" {
		return nil
	}

	var cached bool
	d.state.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Images.Contains(url)
	})
	if cached {
		return nil
	}

	raw, err := d.api.FetchImage(ctx, url)
	if err != nil {
		return err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode cover image: %w", err)
	}

	// Обложка ужимается заранее, чтобы рендеру не пришлось масштабировать
	img = imaging.Fit(img, d.cfg.CoverArtSize, d.cfg.CoverArtSize, imaging.Lanczos)

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Images.Put(url, img)
	})
	return nil
}
