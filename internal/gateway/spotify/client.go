package spotify

import (
	"context"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"remotify/internal/model"
)

// Client реализует фасад над zmb3/spotify клиентом
type Client struct {
	api     *spotify.Client
	fetch   *fetcher
	session SessionDevice
	logger  *zap.Logger
}

// Убеждаемся, что Client реализует Interface
var _ Interface = (*Client)(nil)

// NewClient создает фасад над авторизованным zmb3/spotify клиентом.
// session может быть nil, если встроенная стриминговая сессия не используется.
func NewClient(api *spotify.Client, session SessionDevice, rps float64, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		api:     api,
		fetch:   newFetcher(api, rps, timeout, logger),
		session: session,
		logger:  logger,
	}
}

// CurrentUser возвращает текущего пользователя
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return model.User{}, classify("current user", err)
	}
	return model.UserFrom(user), nil
}

// Devices возвращает доступные устройства воспроизведения
func (c *Client) Devices(ctx context.Context) ([]model.Device, error) {
	devices, err := c.api.PlayerDevices(ctx)
	if err != nil {
		return nil, classify("devices", err)
	}

	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if d.ID == "" {
			continue
		}
		out = append(out, model.DeviceFrom(d))
	}
	return out, nil
}

// CurrentPlayback возвращает снимок текущего воспроизведения
func (c *Client) CurrentPlayback(ctx context.Context) (*model.Playback, error) {
	ps, err := c.api.PlayerState(ctx)
	if err != nil {
		return nil, classify("current playback", err)
	}
	return model.PlaybackFromState(ps), nil
}

// FindAvailableDevice ищет доступное устройство с приоритетом defaultName.
// Устройство встроенной сессии добавляется в кандидаты вручную: сразу после
// инициализации оно может еще не числиться в списке устройств сервиса.
func (c *Client) FindAvailableDevice(ctx context.Context, defaultName string) (string, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return "", err
	}

	if c.session != nil && c.session.DeviceID() != "" {
		devices = append(devices, model.Device{
			ID:   c.session.DeviceID(),
			Name: c.session.DeviceName(),
		})
	}

	if len(devices) == 0 {
		return "", nil
	}

	for _, d := range devices {
		if d.Name == defaultName {
			return d.ID, nil
		}
	}

	return devices[0].ID, nil
}

// TransferPlayback переносит воспроизведение на другое устройство
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, forcePlay bool) error {
	return classify("transfer playback", c.api.TransferPlayback(ctx, spotify.ID(deviceID), forcePlay))
}

// NextTrack переключает на следующий трек
func (c *Client) NextTrack(ctx context.Context, deviceID string) error {
	return classify("next track", c.api.NextOpt(ctx, playOpts(deviceID)))
}

// PreviousTrack переключает на предыдущий трек
func (c *Client) PreviousTrack(ctx context.Context, deviceID string) error {
	return classify("previous track", c.api.PreviousOpt(ctx, playOpts(deviceID)))
}

// ResumePlayback возобновляет воспроизведение
func (c *Client) ResumePlayback(ctx context.Context, deviceID string) error {
	return classify("resume playback", c.api.PlayOpt(ctx, playOpts(deviceID)))
}

// PausePlayback ставит воспроизведение на паузу
func (c *Client) PausePlayback(ctx context.Context, deviceID string) error {
	return classify("pause playback", c.api.PauseOpt(ctx, playOpts(deviceID)))
}

// SeekTrack перематывает текущий трек
func (c *Client) SeekTrack(ctx context.Context, positionMs int, deviceID string) error {
	return classify("seek track", c.api.SeekOpt(ctx, positionMs, playOpts(deviceID)))
}

// SetRepeat устанавливает режим повтора
func (c *Client) SetRepeat(ctx context.Context, state model.RepeatState, deviceID string) error {
	return classify("set repeat", c.api.RepeatOpt(ctx, string(state), playOpts(deviceID)))
}

// SetShuffle устанавливает режим перемешивания
func (c *Client) SetShuffle(ctx context.Context, shuffle bool, deviceID string) error {
	return classify("set shuffle", c.api.ShuffleOpt(ctx, shuffle, playOpts(deviceID)))
}

// SetVolume устанавливает громкость
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	return classify("set volume", c.api.VolumeOpt(ctx, percent, playOpts(deviceID)))
}

// StartPlayback запускает воспроизведение контекста или списка треков
func (c *Client) StartPlayback(ctx context.Context, target model.PlaybackTarget, deviceID string) error {
	opts := playOpts(deviceID)
	if opts == nil {
		opts = &spotify.PlayOptions{}
	}

	if target.Context != nil {
		uri := spotify.URI(target.Context.URI())
		opts.PlaybackContext = &uri
	}

	for _, id := range target.TrackIDs {
		opts.URIs = append(opts.URIs, spotify.URI("spotify:track:"+id))
	}

	if target.Offset != nil {
		opts.PlaybackOffset = &spotify.PlaybackOffset{Position: target.Offset}
	}

	return classify("start playback", c.api.PlayOpt(ctx, opts))
}

// AddTrackToQueue добавляет трек в очередь воспроизведения
func (c *Client) AddTrackToQueue(ctx context.Context, trackID string) error {
	return classify("queue track", c.api.QueueSong(ctx, spotify.ID(trackID)))
}

// FetchImage скачивает обложку по URL
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return c.fetch.GetBytes(ctx, url)
}

// playOpts строит опции player-запроса для целевого устройства
func playOpts(deviceID string) *spotify.PlayOptions {
	if deviceID == "" {
		return nil
	}
	id := spotify.ID(deviceID)
	return &spotify.PlayOptions{DeviceID: &id}
}
